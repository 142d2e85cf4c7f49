package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubmitJobRepository struct{ mock.Mock }

func (m *MockSubmitJobRepository) Add(ctx context.Context, j *job.ImportJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockSubmitJobRepository) Update(ctx context.Context, j *job.ImportJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockSubmitJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.ImportJob), args.Error(1)
}

func (m *MockSubmitJobRepository) ClaimNextRunnable(ctx context.Context, now time.Time) (*job.ImportJob, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.ImportJob), args.Error(1)
}

func (m *MockSubmitJobRepository) FailStuckProcessing(ctx context.Context, deadline time.Time, message string) (int64, error) {
	args := m.Called(ctx, deadline, message)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubmitJobUoW struct{ mock.Mock }

func (m *MockSubmitJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubmitJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubmitJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubmitJobUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

type MockSubmitJobUoWFactory struct{ mock.Mock }

func (m *MockSubmitJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

func TestSubmitImportJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	repo := new(MockSubmitJobRepository)
	uow := new(MockSubmitJobUoW)
	factory := new(MockSubmitJobUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	uow.On("JobRepository").Return(repo).Once()

	var added *job.ImportJob
	repo.On("Add", ctx, mock.AnythingOfType("*job.ImportJob")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*job.ImportJob) }).
		Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	jobID := kernel.NewUUID()
	cmd, err := commands.NewSubmitImportJobCommand(jobID, job.TypeOrderImport, "/var/imports/orders.xlsx", "ops")
	require.NoError(t, err)

	handler := commands.NewSubmitImportJobCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, added)
	assert.True(t, added.ID().IsEqual(jobID))
	assert.Equal(t, job.StatusPending, added.Status())
	assert.Equal(t, "/var/imports/orders.xlsx", added.FilePath())
	assert.Equal(t, "ops", added.SubmittedBy())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestSubmitImportJobCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockSubmitJobUoWFactory)
	handler := commands.NewSubmitImportJobCommandHandler(factory)

	var cmd commands.SubmitImportJobCommand
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrSubmitImportJobCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewSubmitImportJobCommand(t *testing.T) {
	t.Run("should reject empty file path", func(t *testing.T) {
		_, err := commands.NewSubmitImportJobCommand(kernel.NewUUID(), job.TypeOrderImport, "", "ops")
		assert.ErrorIs(t, err, commands.ErrFilePathIsRequired)
	})

	t.Run("should reject unknown job type", func(t *testing.T) {
		_, err := commands.NewSubmitImportJobCommand(kernel.NewUUID(), job.TypeUnknown, "/tmp/f.xlsx", "ops")
		assert.Error(t, err)
	})
}
