package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetJobStatusQuery_Valid(t *testing.T) {
	jobID := kernel.NewUUID()
	query, err := queries.NewGetJobStatusQuery(jobID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.JobID().IsEqual(jobID))
}

func TestNewGetJobStatusQuery_InvalidID(t *testing.T) {
	var invalidID kernel.UUID
	_, err := queries.NewGetJobStatusQuery(invalidID)
	require.Error(t, err)
}

func TestGetJobStatusQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetJobStatusQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetJobStatusQueryIsNotConstructed)
}
