package storefront

import (
	"fmt"
	"io"
	"os"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet     = "Orders"
	orderItemsSheet = "Items"
)

// ExportOrders writes the order history as a workbook with one sheet of
// orders and one of order lines.
func ExportOrders(orders []shopapi.Order, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ordersSheet); err != nil {
		return fmt.Errorf("failed to name orders sheet: %w", err)
	}
	if _, err := f.NewSheet(orderItemsSheet); err != nil {
		return fmt.Errorf("failed to create items sheet: %w", err)
	}

	if err := setRow(f, ordersSheet, 1, []interface{}{"Order ID", "Placed At", "Lines", "Quantity", "Total"}); err != nil {
		return err
	}
	if err := setRow(f, orderItemsSheet, 1, []interface{}{"Order ID", "Item ID", "Item", "Quantity", "Price", "Subtotal"}); err != nil {
		return err
	}

	itemRow := 2
	for i, order := range orders {
		quantity := 0
		for _, line := range order.Items {
			quantity += int(line.Quantity)
			subtotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if err := setRow(f, orderItemsSheet, itemRow, []interface{}{
				order.ID,
				line.ItemID,
				line.Item.Name,
				line.Quantity,
				line.Price.InexactFloat64(),
				subtotal.InexactFloat64(),
			}); err != nil {
				return err
			}
			itemRow++
		}

		placedAt := ""
		if !order.CreatedAt.IsZero() {
			placedAt = order.CreatedAt.Format("2006-01-02 15:04:05")
		}
		if err := setRow(f, ordersSheet, i+2, []interface{}{
			order.ID,
			placedAt,
			len(order.Items),
			quantity,
			order.Total.InexactFloat64(),
		}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Debug("Orders exported", map[string]interface{}{
		"orders": len(orders),
		"lines":  itemRow - 2,
	})
	return nil
}

// ExportOrdersFile writes ExportOrders output to path.
func ExportOrdersFile(orders []shopapi.Order, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := ExportOrders(orders, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
