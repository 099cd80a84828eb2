package domain

type CartAction string

const (
	CartActionLineAdded       CartAction = "line_added"
	CartActionLineRemoved     CartAction = "line_removed"
	CartActionQuantityChanged CartAction = "quantity_changed"
	CartActionCleared         CartAction = "cleared"
)

// A CartEvent is the outbound activity record emitted after every
// committed cart mutation. Best-effort: losing one never affects the
// cart itself.
type CartEvent struct {
	Action    CartAction
	ProductID string
	Title     string
	LineID    string
	Quantity  int
	Subtotal  string
	Total     string
}
