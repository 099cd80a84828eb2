package httphandler

type (
	Product struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       string `json:"price"`
		Image       string `json:"image"`
		Category    string `json:"category"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
	}

	Catalog struct {
		Products   []Product  `json:"products"`
		Categories []Category `json:"categories"`
	}

	CartLine struct {
		ID       string  `json:"id"`
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
		Subtotal string  `json:"subtotal"`
	}

	Notification struct {
		Visible bool     `json:"visible"`
		Product *Product `json:"product,omitempty"`
	}

	CartState struct {
		Lines        []CartLine   `json:"lines"`
		Total        string       `json:"total"`
		Open         bool         `json:"open"`
		Notification Notification `json:"notification"`
	}
)

type AddItem struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantity struct {
	Quantity int `json:"quantity"`
}

type OrderSummary struct {
	Summary string `json:"summary"`
	Total   string `json:"total"`
}

type ProductAdds struct {
	ProductID string `json:"product_id"`
	Adds      int64  `json:"adds"`
}
