package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// A CartLine is one cart entry for a distinct product.
// Exactly one line exists per product ID; the line is created on the
// first add and destroyed when its quantity drops to zero.
type CartLine struct {
	ID       string
	Product  Product
	Quantity int
	Subtotal decimal.Decimal
}

// A CartState is a read-only snapshot handed to consumers.
// Lines keep insertion order; Total is always the sum of the line
// subtotals and is never stored independently.
type CartState struct {
	Lines        []CartLine
	Total        decimal.Decimal
	Open         bool
	Notification Notification
}

// LinesTotal derives the cart total from the given lines.
func LinesTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}
