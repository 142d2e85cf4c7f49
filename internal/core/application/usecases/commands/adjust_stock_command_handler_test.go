package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAdjustProductRepository struct{ mock.Mock }

func (m *MockAdjustProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockAdjustProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockAdjustStockRepository struct{ mock.Mock }

func (m *MockAdjustStockRepository) GetLocationByCode(ctx context.Context, code string) (*stock.Location, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Location), args.Error(1)
}

func (m *MockAdjustStockRepository) GetHoldings(ctx context.Context, productID kernel.UUID) ([]stock.Holding, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Holding), args.Error(1)
}

func (m *MockAdjustStockRepository) AdjustQuantity(ctx context.Context, productID, locationID kernel.UUID, delta int) error {
	args := m.Called(ctx, productID, locationID, delta)
	return args.Error(0)
}

func (m *MockAdjustStockRepository) AppendMovement(ctx context.Context, movement *stock.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

type MockStockUoW struct{ mock.Mock }

func (m *MockStockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockStockUoW) StockRepository() ports.StockRepository {
	args := m.Called()
	return args.Get(0).(ports.StockRepository)
}

type MockStockUoWFactory struct{ mock.Mock }

func (m *MockStockUoWFactory) Create() commands.StockUoW {
	args := m.Called()
	return args.Get(0).(commands.StockUoW)
}

func storageLocation(t *testing.T, code string) *stock.Location {
	t.Helper()
	l, err := stock.NewLocation(kernel.NewUUID(), code, 1, stock.PurposeStorage)
	require.NoError(t, err)
	return l
}

func TestNewAdjustStockCommand(t *testing.T) {
	t.Run("should create command with valid parameters", func(t *testing.T) {
		cmd, err := commands.NewAdjustStockCommand(
			stock.Adjustment{SKU: "SKU-A", LocationCode: "A1-01", Delta: 5}, "ops")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, 5, cmd.Adjustment().Delta)
	})

	t.Run("should reject zero delta", func(t *testing.T) {
		_, err := commands.NewAdjustStockCommand(
			stock.Adjustment{SKU: "SKU-A", LocationCode: "A1-01", Delta: 0}, "ops")

		assert.ErrorIs(t, err, commands.ErrDeltaIsZero)
	})

	t.Run("should reject missing actor", func(t *testing.T) {
		_, err := commands.NewAdjustStockCommand(
			stock.Adjustment{SKU: "SKU-A", LocationCode: "A1-01", Delta: 1}, "")

		assert.ErrorIs(t, err, commands.ErrActorIsRequired)
	})
}

func TestAdjustStockCommandHandler_Handle_Increase(t *testing.T) {
	ctx := t.Context()

	products := new(MockAdjustProductRepository)
	stocks := new(MockAdjustStockRepository)
	uow := new(MockStockUoW)
	factory := new(MockStockUoWFactory)

	p, err := product.NewProduct(kernel.NewUUID(), "SKU-A", "Item A")
	require.NoError(t, err)
	location := storageLocation(t, "A1-01")

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	uow.On("ProductRepository").Return(products)
	uow.On("StockRepository").Return(stocks)
	products.On("GetBySKU", ctx, "SKU-A").Return(p, nil).Once()
	stocks.On("GetLocationByCode", ctx, "A1-01").Return(location, nil).Once()
	stocks.On("AdjustQuantity", ctx, p.ID(), location.ID(), 5).Return(nil).Once()

	var movement *stock.Movement
	stocks.On("AppendMovement", ctx, mock.AnythingOfType("*stock.Movement")).
		Run(func(args mock.Arguments) { movement = args.Get(1).(*stock.Movement) }).
		Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	handler := commands.NewAdjustStockCommandHandler(factory)
	cmd, err := commands.NewAdjustStockCommand(
		stock.Adjustment{SKU: "sku-a", LocationCode: "A1-01", Delta: 5, Note: "found in count"}, "ops")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, movement)
	assert.Equal(t, stock.MovementTypeAdjustment, movement.Type())
	assert.Equal(t, 5, movement.Quantity())
	assert.Nil(t, movement.FromLocation())
	require.NotNil(t, movement.ToLocation())
	assert.True(t, movement.ToLocation().IsEqual(location.ID()))
	assert.Equal(t, "found in count", movement.Note())
	stocks.AssertExpectations(t)
	products.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAdjustStockCommandHandler_Handle_Decrease(t *testing.T) {
	ctx := t.Context()

	products := new(MockAdjustProductRepository)
	stocks := new(MockAdjustStockRepository)
	uow := new(MockStockUoW)
	factory := new(MockStockUoWFactory)

	p, err := product.NewProduct(kernel.NewUUID(), "SKU-A", "Item A")
	require.NoError(t, err)
	location := storageLocation(t, "A1-01")

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	uow.On("ProductRepository").Return(products)
	uow.On("StockRepository").Return(stocks)
	products.On("GetBySKU", ctx, "SKU-A").Return(p, nil).Once()
	stocks.On("GetLocationByCode", ctx, "A1-01").Return(location, nil).Once()
	stocks.On("AdjustQuantity", ctx, p.ID(), location.ID(), -3).Return(nil).Once()

	var movement *stock.Movement
	stocks.On("AppendMovement", ctx, mock.AnythingOfType("*stock.Movement")).
		Run(func(args mock.Arguments) { movement = args.Get(1).(*stock.Movement) }).
		Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	handler := commands.NewAdjustStockCommandHandler(factory)
	cmd, err := commands.NewAdjustStockCommand(
		stock.Adjustment{SKU: "SKU-A", LocationCode: "A1-01", Delta: -3}, "ops")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, movement)
	assert.Equal(t, 3, movement.Quantity())
	assert.Nil(t, movement.ToLocation())
	require.NotNil(t, movement.FromLocation())
	assert.True(t, movement.FromLocation().IsEqual(location.ID()))
}

func TestAdjustStockCommandHandler_Handle_RejectsPackageSKU(t *testing.T) {
	ctx := t.Context()

	products := new(MockAdjustProductRepository)
	uow := new(MockStockUoW)
	factory := new(MockStockUoWFactory)

	comp, err := product.NewComponent(kernel.NewUUID(), 2)
	require.NoError(t, err)
	kit, err := product.NewPackage(kernel.NewUUID(), "KIT-1", "Bundle", []product.Component{comp})
	require.NoError(t, err)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	uow.On("ProductRepository").Return(products)
	products.On("GetBySKU", ctx, "KIT-1").Return(kit, nil).Once()

	handler := commands.NewAdjustStockCommandHandler(factory)
	cmd, err := commands.NewAdjustStockCommand(
		stock.Adjustment{SKU: "KIT-1", LocationCode: "A1-01", Delta: 2}, "ops")
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, commands.ErrPackageCarriesNoStock)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAdjustStockCommandHandler_Handle_UnknownLocation(t *testing.T) {
	ctx := t.Context()

	products := new(MockAdjustProductRepository)
	stocks := new(MockAdjustStockRepository)
	uow := new(MockStockUoW)
	factory := new(MockStockUoWFactory)

	p, err := product.NewProduct(kernel.NewUUID(), "SKU-A", "Item A")
	require.NoError(t, err)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	uow.On("ProductRepository").Return(products)
	uow.On("StockRepository").Return(stocks)
	products.On("GetBySKU", ctx, "SKU-A").Return(p, nil).Once()
	stocks.On("GetLocationByCode", ctx, "ZZ-99").
		Return(nil, errs.NewObjectNotFoundError("locationCode", "ZZ-99")).Once()

	handler := commands.NewAdjustStockCommandHandler(factory)
	cmd, err := commands.NewAdjustStockCommand(
		stock.Adjustment{SKU: "SKU-A", LocationCode: "ZZ-99", Delta: 2}, "ops")
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
