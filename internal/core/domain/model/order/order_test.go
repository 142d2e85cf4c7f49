package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func createPendingOrder(t *testing.T, invoiceID string) *order.Order {
	t.Helper()
	now := time.Now()

	o, err := order.NewOrder(
		kernel.NewUUID(), invoiceID, order.ChannelShopee, "Test Buyer",
		&now, order.MPNew, order.StatusPending, "orders-2026-01.xlsx",
	)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func createPendingLine(t *testing.T, sku string, quantity int) *order.Line {
	t.Helper()
	l, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), sku, quantity, order.StatusPending)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}

func restoreLineWithStatus(t *testing.T, sku string, quantity int, status order.Status) *order.Line {
	t.Helper()
	l, err := order.RestoreLine(
		kernel.NewUUID(), kernel.NewUUID(), sku, quantity, status, nil, nil, nil, "",
	)
	require.NoError(t, err)
	return l
}

func restoreValidatedOrder(t *testing.T, invoiceID string, lines []*order.Line) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), invoiceID, order.ChannelShopee, "Test Buyer",
		nil, order.MPShipped, order.StatusValidated, true, "orders-2026-01.xlsx", lines,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with valid parameters", func(t *testing.T) {
		o := createPendingOrder(t, "INV-001")

		require.NoError(t, o.Validate())
		assert.Equal(t, "INV-001", o.InvoiceID())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.MPNew, o.MarketplaceStatus())
		assert.True(t, o.IsActive())
		assert.Empty(t, o.Lines())
	})

	t.Run("should create order born cancelled", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "INV-002", order.ChannelLazada, "",
			nil, order.MPCancelled, order.StatusCancel, "orders.xlsx",
		)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancel, o.Status())
	})

	t.Run("should reject returned as birth status", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "INV-003", order.ChannelShopee, "",
			nil, order.MPReturned, order.StatusReturned, "orders.xlsx",
		)

		assert.Error(t, err)
	})

	t.Run("should reject empty invoice id", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "", order.ChannelShopee, "",
			nil, order.MPNew, order.StatusPending, "orders.xlsx",
		)

		assert.Error(t, err)
	})

	t.Run("should reject invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := order.NewOrder(
			invalidID, "INV-004", order.ChannelShopee, "",
			nil, order.MPNew, order.StatusPending, "orders.xlsx",
		)

		assert.Error(t, err)
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("should reject order not created via constructor", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should reject nil order", func(t *testing.T) {
		var o *order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestNewLine(t *testing.T) {
	t.Run("should create pending line", func(t *testing.T) {
		l := createPendingLine(t, "SKU-A", 3)

		assert.Equal(t, "SKU-A", l.SourceSKU())
		assert.Equal(t, 3, l.Quantity())
		assert.Equal(t, order.StatusPending, l.Status())
		assert.Nil(t, l.SuggestedLocation())
	})

	t.Run("should reject zero quantity", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), "SKU-A", 0, order.StatusPending)
		assert.Error(t, err)
	})

	t.Run("should reject blank source SKU", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), "   ", 1, order.StatusPending)
		assert.Error(t, err)
	})

	t.Run("should reject validated as initial status", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), "SKU-A", 1, order.StatusValidated)
		assert.Error(t, err)
	})
}

func TestLineSplitReturn(t *testing.T) {
	t.Run("should conserve quantity across split", func(t *testing.T) {
		l := restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)

		split, err := l.SplitReturn(2)

		require.NoError(t, err)
		assert.Equal(t, 3, l.Quantity())
		assert.Equal(t, order.StatusValidated, l.Status())
		assert.Equal(t, 2, split.Quantity())
		assert.Equal(t, order.StatusReturned, split.Status())
		assert.Equal(t, "SKU-A", split.SourceSKU())
		assert.True(t, split.ProductID().IsEqual(l.ProductID()))
	})

	t.Run("should reject split of full quantity", func(t *testing.T) {
		l := restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)

		_, err := l.SplitReturn(5)

		assert.ErrorIs(t, err, order.ErrSplitQuantityInvalid)
		assert.Equal(t, 5, l.Quantity())
	})

	t.Run("should reject non-positive split", func(t *testing.T) {
		l := restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)

		_, err := l.SplitReturn(0)

		assert.ErrorIs(t, err, order.ErrSplitQuantityInvalid)
	})
}

func TestOrderContentSignature(t *testing.T) {
	t.Run("should sum quantities per normalized SKU", func(t *testing.T) {
		o := createPendingOrder(t, "INV-010")
		require.NoError(t, o.AddLine(createPendingLine(t, "sku-a ", 2)))
		require.NoError(t, o.AddLine(createPendingLine(t, "SKU-A", 3)))
		require.NoError(t, o.AddLine(createPendingLine(t, "SKU-B", 1)))

		sig := o.ContentSignature()

		assert.Equal(t, map[string]int{"SKU-A": 5, "SKU-B": 1}, sig)
	})

	t.Run("should stay equal after a partial return split", func(t *testing.T) {
		lines := []*order.Line{
			restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated),
			restoreLineWithStatus(t, "SKU-B", 2, order.StatusValidated),
		}
		o := restoreValidatedOrder(t, "INV-011", lines)
		before := o.ContentSignature()

		applied := o.RegisterReturns(map[string]int{"SKU-A": 2})

		assert.Equal(t, 2, applied)
		assert.Equal(t, before, o.ContentSignature())
		assert.True(t, o.HasSameContent(before))
	})

	t.Run("should detect different content", func(t *testing.T) {
		o := createPendingOrder(t, "INV-012")
		require.NoError(t, o.AddLine(createPendingLine(t, "SKU-A", 2)))

		assert.False(t, o.HasSameContent(map[string]int{"SKU-A": 3}))
		assert.False(t, o.HasSameContent(map[string]int{"SKU-A": 2, "SKU-B": 1}))
		assert.True(t, o.HasSameContent(map[string]int{"SKU-A": 2}))
	})
}

func TestOrderMarkCancelled(t *testing.T) {
	t.Run("should cancel header and all lines", func(t *testing.T) {
		o := createPendingOrder(t, "INV-020")
		require.NoError(t, o.AddLine(createPendingLine(t, "SKU-A", 2)))
		require.NoError(t, o.AddLine(createPendingLine(t, "SKU-B", 1)))

		err := o.MarkCancelled(order.MPCancelled)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancel, o.Status())
		assert.Equal(t, order.MPCancelled, o.MarketplaceStatus())
		for _, l := range o.Lines() {
			assert.Equal(t, order.StatusCancel, l.Status())
		}
	})

	t.Run("should be idempotent on cancelled header", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "INV-021", order.ChannelShopee, "",
			nil, order.MPCancelled, order.StatusCancel, "orders.xlsx",
		)
		require.NoError(t, err)

		assert.NoError(t, o.MarkCancelled(order.MPCancelled))
		assert.Equal(t, order.StatusCancel, o.Status())
	})

	t.Run("should reject cancelling obsolete header", func(t *testing.T) {
		o := createPendingOrder(t, "INV-022")
		require.NoError(t, o.Supersede())

		assert.Error(t, o.MarkCancelled(order.MPCancelled))
	})
}

func TestOrderSupersede(t *testing.T) {
	t.Run("should archive header and cancel lines", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 2, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-030", lines)

		err := o.Supersede()

		require.NoError(t, err)
		assert.Equal(t, order.StatusObsolete, o.Status())
		assert.False(t, o.IsActive())
		assert.Equal(t, order.StatusCancel, o.Lines()[0].Status())
	})
}

func TestOrderRegisterReturns(t *testing.T) {
	t.Run("should return whole line when target covers it", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 3, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-040", lines)

		applied := o.RegisterReturns(map[string]int{"SKU-A": 3})

		assert.Equal(t, 3, applied)
		assert.Len(t, o.Lines(), 1)
		assert.Equal(t, order.StatusReturned, o.Lines()[0].Status())
	})

	t.Run("should split line on partial return", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-041", lines)

		applied := o.RegisterReturns(map[string]int{"SKU-A": 2})

		assert.Equal(t, 2, applied)
		require.Len(t, o.Lines(), 2)
		assert.Equal(t, 3, o.Lines()[0].Quantity())
		assert.Equal(t, order.StatusValidated, o.Lines()[0].Status())
		assert.Equal(t, 2, o.Lines()[1].Quantity())
		assert.Equal(t, order.StatusReturned, o.Lines()[1].Status())
	})

	t.Run("should accumulate across repeated deliveries", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-042", lines)

		// First delivery returns 2 of 5, second raises the total to 4.
		assert.Equal(t, 2, o.RegisterReturns(map[string]int{"SKU-A": 2}))
		assert.Equal(t, 2, o.RegisterReturns(map[string]int{"SKU-A": 4}))

		returned := 0
		for _, l := range o.Lines() {
			if l.Status() == order.StatusReturned {
				returned += l.Quantity()
			}
		}
		assert.Equal(t, 4, returned)
	})

	t.Run("should be a no-op when target already met", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 5, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-043", lines)

		assert.Equal(t, 2, o.RegisterReturns(map[string]int{"SKU-A": 2}))
		assert.Equal(t, 0, o.RegisterReturns(map[string]int{"SKU-A": 2}))
		assert.Len(t, o.Lines(), 2)
	})

	t.Run("should clamp target exceeding held quantity", func(t *testing.T) {
		lines := []*order.Line{restoreLineWithStatus(t, "SKU-A", 3, order.StatusValidated)}
		o := restoreValidatedOrder(t, "INV-044", lines)

		applied := o.RegisterReturns(map[string]int{"SKU-A": 10})

		assert.Equal(t, 3, applied)
		assert.Equal(t, order.StatusReturned, o.Lines()[0].Status())
	})

	t.Run("should skip cancelled lines", func(t *testing.T) {
		lines := []*order.Line{
			restoreLineWithStatus(t, "SKU-A", 2, order.StatusCancel),
			restoreLineWithStatus(t, "SKU-A", 3, order.StatusValidated),
		}
		o := restoreValidatedOrder(t, "INV-045", lines)

		applied := o.RegisterReturns(map[string]int{"SKU-A": 3})

		assert.Equal(t, 3, applied)
		assert.Equal(t, order.StatusCancel, o.Lines()[0].Status())
		assert.Equal(t, order.StatusReturned, o.Lines()[1].Status())
	})
}

func TestIncomingIsReturnSignal(t *testing.T) {
	t.Run("should signal on header status", func(t *testing.T) {
		in := order.Incoming{Status: order.MPReturned}
		assert.True(t, in.IsReturnSignal())
	})

	t.Run("should signal on item returned quantity", func(t *testing.T) {
		in := order.Incoming{
			Status: order.MPCompleted,
			Items:  []order.IncomingItem{{SKU: "SKU-A", Quantity: 2, ReturnedQuantity: 1}},
		}
		assert.True(t, in.IsReturnSignal())
	})

	t.Run("should not signal without either", func(t *testing.T) {
		in := order.Incoming{
			Status: order.MPShipped,
			Items:  []order.IncomingItem{{SKU: "SKU-A", Quantity: 2}},
		}
		assert.False(t, in.IsReturnSignal())
	})
}

func TestParseMarketplaceStatus(t *testing.T) {
	assert.Equal(t, order.MPNew, order.ParseMarketplaceStatus("unpaid"))
	assert.Equal(t, order.MPShipped, order.ParseMarketplaceStatus("In_Transit"))
	assert.Equal(t, order.MPCancelled, order.ParseMarketplaceStatus("Canceled"))
	assert.Equal(t, order.MPReturned, order.ParseMarketplaceStatus("REFUNDED"))
	assert.Equal(t, order.MPUnknown, order.ParseMarketplaceStatus("weird wording"))
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, order.ChannelShopee, order.ParseChannel("Shopee"))
	assert.Equal(t, order.ChannelTiktok, order.ParseChannel("tiktok shop"))
	assert.Equal(t, order.ChannelUnknown, order.ParseChannel("ebay"))

	assert.True(t, order.ChannelShopee.ReportsReturnedQuantity())
	assert.True(t, order.ChannelLazada.ReportsReturnedQuantity())
	assert.False(t, order.ChannelTokopedia.ReportsReturnedQuantity())
}
