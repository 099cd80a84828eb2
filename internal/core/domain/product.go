package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnknownProduct = errors.New("product is not in the catalog")

type (
	// A Product is immutable reference data owned by the catalog.
	// The cart never mutates it.
	Product struct {
		ID          string
		Title       string
		Description string
		Price       decimal.Decimal
		Image       string
		Category    string
	}

	Category struct {
		ID    string
		Name  string
		Label string
	}
)

// A Catalog holds the ordered product and category records supplied
// once at startup.
type Catalog struct {
	products   []Product
	categories []Category
	byID       map[string]Product
}

func NewCatalog(ps []Product, cs []Category) Catalog {
	byID := make(map[string]Product, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
	}
	return Catalog{products: ps, categories: cs, byID: byID}
}

func (c Catalog) Products() []Product {
	return c.products
}

func (c Catalog) Categories() []Category {
	return c.categories
}

func (c Catalog) ProductByID(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrUnknownProduct
	}
	return p, nil
}
