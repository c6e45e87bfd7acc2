package db

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CatalogEntry is one item of a static catalog file.
type CatalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	ImageURL    string `yaml:"image_url"`
}

type catalogFile struct {
	Items []CatalogEntry `yaml:"items"`
}

// DefaultCatalog returns the embedded sample catalog.
func DefaultCatalog() ([]model.Item, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog decodes a YAML catalog into items ready to be inserted.
func LoadCatalog(r io.Reader) ([]model.Item, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	items := make([]model.Item, 0, len(file.Items))
	for i, entry := range file.Items {
		item, err := entry.ToItem()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ToItem validates the entry and converts it to a model.Item.
func (e CatalogEntry) ToItem() (model.Item, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return model.Item{}, fmt.Errorf("name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(e.Price))
	if err != nil {
		return model.Item{}, fmt.Errorf("invalid price %q for %s: %w", e.Price, name, err)
	}
	if price.IsNegative() {
		return model.Item{}, fmt.Errorf("negative price for %s", name)
	}

	category := strings.TrimSpace(e.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	return model.Item{
		Name:        name,
		Description: strings.TrimSpace(e.Description),
		Price:       price,
		Category:    category,
		ImageURL:    strings.TrimSpace(e.ImageURL),
	}, nil
}
