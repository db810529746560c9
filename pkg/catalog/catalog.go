// Package catalog holds the read-only taxonomy of damage categories and items
// together with their default depreciation rates.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Item is a damage item within a category.
type Item struct {
	Name                    string          `yaml:"name" json:"name"`
	Description             string          `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultDepreciationRate decimal.Decimal `yaml:"defaultDepreciationRate" json:"default_depreciation_rate"`
}

// Category groups related damage items.
type Category struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Items       []Item `yaml:"items" json:"items"`
}

// Catalog answers depreciation-rate lookups. It is never modified after
// construction, so it is safe for concurrent use.
type Catalog struct {
	categories []Category
	rates      map[string]decimal.Decimal
}

// New builds a catalog from the given categories. Every default rate must be
// within [0,1].
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: cloneCategories(categories),
		rates:      make(map[string]decimal.Decimal),
	}
	one := decimal.NewFromInt(1)
	for _, category := range c.categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("catalog category without a name")
		}
		for _, item := range category.Items {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("catalog category %q has an item without a name", category.Name)
			}
			rate := item.DefaultDepreciationRate
			if rate.IsNegative() || rate.GreaterThan(one) {
				return nil, fmt.Errorf("catalog item %s/%s has depreciation rate %s outside [0,1]",
					category.Name, item.Name, rate)
			}
			c.rates[key(category.Name, item.Name)] = rate
		}
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultCategories())
	if err != nil {
		panic(fmt.Sprintf("built-in damage catalog is invalid: %v", err))
	}
	return c
}

// Load parses a YAML list of categories.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var categories []Category
	if err := yaml.Unmarshal(bytes.TrimSpace(data), &categories); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog contains no categories")
	}
	return New(categories)
}

// LoadFile reads a catalog seed file. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Lookup returns the default depreciation rate for an item. Unknown
// categories or items are not an error; ok is false and the caller falls back
// to its own default.
func (c *Catalog) Lookup(category, item string) (decimal.Decimal, bool) {
	if c == nil {
		return decimal.Zero, false
	}
	rate, ok := c.rates[key(category, item)]
	return rate, ok
}

// ResolveRate returns rate when it is set, otherwise the catalog rate for the
// item. It returns nil when neither exists so the engine applies its default.
func (c *Catalog) ResolveRate(category, item string, rate *decimal.Decimal) *decimal.Decimal {
	if rate != nil {
		resolved := *rate
		return &resolved
	}
	if catalogRate, ok := c.Lookup(category, item); ok {
		return &catalogRate
	}
	return nil
}

// Categories returns a copy of the taxonomy.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return cloneCategories(c.categories)
}

func key(category, item string) string {
	return strings.ToLower(strings.TrimSpace(category)) + "\x00" + strings.ToLower(strings.TrimSpace(item))
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, category := range in {
		out[i] = category
		out[i].Items = append([]Item(nil), category.Items...)
	}
	return out
}
