package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holding(code string, floor int, purpose stock.Purpose, qty int) stock.Holding {
	return stock.Holding{
		LocationID:   kernel.NewUUID(),
		LocationCode: code,
		Floor:        floor,
		Purpose:      purpose,
		Quantity:     qty,
	}
}

func TestStockAllocatorSuggestLocation(t *testing.T) {
	allocator := services.NewStockAllocator()

	t.Run("should prefer display location over everything", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("A1-01", 1, stock.PurposeStorage, 100),
			holding("DISP-01", 1, stock.PurposeDisplay, 1),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "DISP-01", best.LocationCode)
	})

	t.Run("should prefer low floor holding full quantity", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("C5-01", 5, stock.PurposeStorage, 50),
			holding("A2-01", 2, stock.PurposeStorage, 10),
			holding("A1-01", 1, stock.PurposeStorage, 3),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "A2-01", best.LocationCode)
	})

	t.Run("should fall back to any full-quantity location", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("A1-01", 1, stock.PurposeStorage, 3),
			holding("C5-01", 5, stock.PurposeStorage, 50),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "C5-01", best.LocationCode)
	})

	t.Run("should prefer low-floor partial over high-floor partial", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("C5-01", 5, stock.PurposeStorage, 4),
			holding("A1-01", 1, stock.PurposeStorage, 2),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "A1-01", best.LocationCode)
	})

	t.Run("should pick largest quantity within a rank", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("A1-01", 1, stock.PurposeStorage, 6),
			holding("A2-01", 2, stock.PurposeStorage, 9),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "A2-01", best.LocationCode)
	})

	t.Run("should never suggest quarantine", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("Q-01", 1, stock.PurposeQuarantine, 50),
			holding("C5-01", 5, stock.PurposeStorage, 1),
		}

		best, err := allocator.SuggestLocation(holdings, 5)

		require.NoError(t, err)
		assert.Equal(t, "C5-01", best.LocationCode)
	})

	t.Run("should ignore empty and negative cells", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("A1-01", 1, stock.PurposeStorage, 0),
			holding("A1-02", 1, stock.PurposeStorage, -2),
		}

		_, err := allocator.SuggestLocation(holdings, 1)

		assert.ErrorIs(t, err, services.ErrNoStockAvailable)
	})

	t.Run("should return ErrNoStockAvailable for no holdings", func(t *testing.T) {
		_, err := allocator.SuggestLocation(nil, 1)

		assert.ErrorIs(t, err, services.ErrNoStockAvailable)
	})

	t.Run("should be deterministic for identical input", func(t *testing.T) {
		holdings := []stock.Holding{
			holding("A1-01", 1, stock.PurposeStorage, 6),
			holding("B3-01", 3, stock.PurposeStorage, 6),
			holding("A2-02", 2, stock.PurposeStorage, 2),
		}

		first, err := allocator.SuggestLocation(holdings, 5)
		require.NoError(t, err)

		for range 10 {
			again, err := allocator.SuggestLocation(holdings, 5)
			require.NoError(t, err)
			assert.Equal(t, first.LocationCode, again.LocationCode)
		}
	})
}
