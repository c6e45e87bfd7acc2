package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// catalogColumns is the expected header row of a catalog workbook. Extra
// columns are ignored; name and price are mandatory.
var catalogColumns = []string{"name", "description", "price", "category", "image_url"}

// LoadCatalogXLSX reads items from the first sheet of a workbook whose first
// row names the columns.
func LoadCatalogXLSX(r io.Reader) ([]model.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing %q column, expected headers %v", required, catalogColumns)
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	items := make([]model.Item, 0, len(rows)-1)
	skipped := 0
	for n, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			skipped++
			continue
		}
		entry := CatalogEntry{
			Name:        cell(row, "name"),
			Description: cell(row, "description"),
			Price:       cell(row, "price"),
			Category:    cell(row, "category"),
			ImageURL:    cell(row, "image_url"),
		}
		item, err := entry.ToItem()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		items = append(items, item)
	}

	logger.Debug("Catalog workbook parsed", map[string]interface{}{
		"sheet":   sheetName,
		"items":   len(items),
		"skipped": skipped,
	})
	return items, nil
}
