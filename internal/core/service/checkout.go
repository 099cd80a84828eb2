package service

import (
	"fmt"
	"strings"

	"github.com/ifmais/storefront/internal/core/domain"
)

// ComposeOrder formats the current cart for handoff to an external
// order channel. Pure with respect to cart state: composing an order
// mutates nothing. An empty cart is reported as [domain.ErrEmptyCart],
// not a system error.
func (s *CartService) ComposeOrder() (domain.OrderSummary, error) {
	const op = "CartService.ComposeOrder"

	state := s.CartState()
	if len(state.Lines) == 0 {
		return domain.OrderSummary{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	return domain.OrderSummary{
		Text:  composeSummaryText(state),
		Total: state.Total.StringFixed(2),
	}, nil
}

func composeSummaryText(state domain.CartState) string {
	var b strings.Builder
	b.WriteString("Order summary:\n")
	for _, l := range state.Lines {
		fmt.Fprintf(&b, "- %s x%d @ %s = %s\n",
			l.Product.Title,
			l.Quantity,
			l.Product.Price.StringFixed(2),
			l.Subtotal.StringFixed(2),
		)
	}
	fmt.Fprintf(&b, "Total: %s", state.Total.StringFixed(2))
	return b.String()
}
