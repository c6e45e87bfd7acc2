package storefront

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleOrders() []shopapi.Order {
	phone := item(2, "Smartphone", "Electronics", "999.00")
	shoes := item(3, "Running Shoes", "Sports", "89.50")
	return []shopapi.Order{
		{
			ID:        10,
			CartID:    4,
			Total:     decimal.RequireFromString("1178.00"),
			CreatedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			Items: []shopapi.OrderItem{
				{ItemID: 2, Quantity: 1, Price: phone.Price, Item: phone},
				{ItemID: 3, Quantity: 2, Price: shoes.Price, Item: shoes},
			},
		},
		{
			ID:    11,
			Total: decimal.RequireFromString("89.50"),
			Items: []shopapi.OrderItem{
				{ItemID: 3, Quantity: 1, Price: shoes.Price, Item: shoes},
			},
		},
	}
}

func TestExportOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportOrders(sampleOrders(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Orders", "Items"}, f.GetSheetList())

	orders, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"Order ID", "Placed At", "Lines", "Quantity", "Total"}, orders[0])
	assert.Equal(t, []string{"10", "2024-03-01 12:30:00", "2", "3", "1178"}, orders[1])
	assert.Equal(t, "11", orders[2][0])
	assert.Empty(t, orders[2][1])

	lines, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"10", "3", "Running Shoes", "2", "89.5", "179"}, lines[2])
}

func TestExportOrders_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportOrders(nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportOrdersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, ExportOrdersFile(sampleOrders(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Orders", "E2")
	require.NoError(t, err)
	assert.Equal(t, "1178", v)
}
