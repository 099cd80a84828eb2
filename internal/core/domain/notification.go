package domain

// A Notification is the transient "added to cart" banner state.
// At most one is live at a time and it is never persisted.
type Notification struct {
	Visible bool
	Product Product
}
