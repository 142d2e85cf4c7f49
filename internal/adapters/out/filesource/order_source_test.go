package filesource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fulfillment/internal/adapters/out/filesource"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVOrderSource_ParseOrders(t *testing.T) {
	t.Run("should group item rows by invoice preserving file order", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date,sku,quantity,returned_quantity\n"+
				"INV-1,shopee,NEW,Budi,2026-08-01,SKU-A,2,\n"+
				"INV-2,tokopedia,SHIPPED,Sari,2026-08-02,SKU-B,1,\n"+
				"INV-1,shopee,NEW,Budi,2026-08-01,SKU-C,3,\n")

		incoming, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, incoming, 2)

		assert.Equal(t, "INV-1", incoming[0].InvoiceID)
		assert.Equal(t, order.ChannelShopee, incoming[0].Channel)
		assert.Equal(t, order.MPNew, incoming[0].Status)
		assert.Equal(t, "Budi", incoming[0].Customer)
		require.NotNil(t, incoming[0].OrderDate)
		assert.Equal(t, "2026-08-01", incoming[0].OrderDate.Format("2006-01-02"))
		require.Len(t, incoming[0].Items, 2)
		assert.Equal(t, "SKU-A", incoming[0].Items[0].SKU)
		assert.Equal(t, 2, incoming[0].Items[0].Quantity)
		assert.Equal(t, "SKU-C", incoming[0].Items[1].SKU)

		assert.Equal(t, "INV-2", incoming[1].InvoiceID)
		require.Len(t, incoming[1].Items, 1)
	})

	t.Run("should read returned quantities when the column is present", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date,sku,quantity,returned_quantity\n"+
				"INV-1,shopee,RETURNED,Budi,2026-08-01,SKU-A,5,2\n")

		incoming, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, incoming, 1)
		assert.Equal(t, 2, incoming[0].Items[0].ReturnedQuantity)
		assert.True(t, incoming[0].IsReturnSignal())
	})

	t.Run("should accept exports without a returned quantity column", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date,sku,quantity\n"+
				"INV-1,lazada,COMPLETED,Ani,,SKU-A,1\n")

		incoming, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, incoming, 1)
		assert.Zero(t, incoming[0].Items[0].ReturnedQuantity)
		assert.Nil(t, incoming[0].OrderDate)
	})

	t.Run("should match columns by name regardless of order", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"sku,quantity,invoice_id,channel,status,customer,order_date\n"+
				"SKU-A,4,INV-9,tiktok,NEW,Dewi,2026-08-03 10:30:00\n")

		incoming, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, incoming, 1)
		assert.Equal(t, "INV-9", incoming[0].InvoiceID)
		assert.Equal(t, order.ChannelTiktok, incoming[0].Channel)
		assert.Equal(t, 4, incoming[0].Items[0].Quantity)
	})

	t.Run("should fail on a missing required column", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date\n"+
				"INV-1,shopee,NEW,Budi,2026-08-01\n")

		_, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sku")
	})

	t.Run("should fail with the row number on a bad quantity", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date,sku,quantity\n"+
				"INV-1,shopee,NEW,Budi,2026-08-01,SKU-A,many\n")

		_, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("should fail on an empty invoice id", func(t *testing.T) {
		path := stageFile(t, "orders.csv",
			"invoice_id,channel,status,customer,order_date,sku,quantity\n"+
				" ,shopee,NEW,Budi,2026-08-01,SKU-A,1\n")

		_, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), path)
		require.Error(t, err)
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		_, err := filesource.NewCSVOrderSource().ParseOrders(context.Background(), "/nonexistent/orders.csv")
		require.Error(t, err)
	})
}

func TestCSVAdjustmentSource_ParseAdjustments(t *testing.T) {
	t.Run("should parse rows in file order", func(t *testing.T) {
		path := stageFile(t, "adjustments.csv",
			"sku,location_code,delta,note\n"+
				"SKU-A,A-01-01,5,found during count\n"+
				"SKU-B,B-02-01,-3,\n")

		adjustments, err := filesource.NewCSVAdjustmentSource().ParseAdjustments(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, adjustments, 2)

		assert.Equal(t, "SKU-A", adjustments[0].SKU)
		assert.Equal(t, "A-01-01", adjustments[0].LocationCode)
		assert.Equal(t, 5, adjustments[0].Delta)
		assert.Equal(t, "found during count", adjustments[0].Note)

		assert.Equal(t, -3, adjustments[1].Delta)
		assert.Empty(t, adjustments[1].Note)
	})

	t.Run("should accept files without a note column", func(t *testing.T) {
		path := stageFile(t, "adjustments.csv",
			"sku,location_code,delta\n"+
				"SKU-A,A-01-01,1\n")

		adjustments, err := filesource.NewCSVAdjustmentSource().ParseAdjustments(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, adjustments, 1)
		assert.Empty(t, adjustments[0].Note)
	})

	t.Run("should fail with the row number on a bad delta", func(t *testing.T) {
		path := stageFile(t, "adjustments.csv",
			"sku,location_code,delta\n"+
				"SKU-A,A-01-01,lots\n")

		_, err := filesource.NewCSVAdjustmentSource().ParseAdjustments(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("should fail on a missing required column", func(t *testing.T) {
		path := stageFile(t, "adjustments.csv",
			"sku,delta\n"+
				"SKU-A,1\n")

		_, err := filesource.NewCSVAdjustmentSource().ParseAdjustments(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "location_code")
	})
}
