package domain

// An OrderSummary is the checkout handoff payload: a deterministic
// human-readable rendering of the cart for an external order channel.
// The system never processes payment.
type OrderSummary struct {
	Text  string
	Total string
}
