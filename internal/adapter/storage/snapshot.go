package storage

import (
	"encoding/json"
	"fmt"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Persisted snapshot layout: one serialized record holding the full
// line list. Only the product ID is stored; products are re-resolved
// against the live catalog on restore. Subtotal is a decimal string so
// quantity and subtotal round-trip exactly.
type (
	snapshotDoc struct {
		Lines []snapshotLine `json:"lines"`
	}

	snapshotLine struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Subtotal  string `json:"subtotal"`
	}
)

func marshalSnapshot(lines []domain.CartLine) ([]byte, error) {
	doc := snapshotDoc{Lines: make([]snapshotLine, 0, len(lines))}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, snapshotLine{
			ID:        l.ID,
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal.String(),
		})
	}
	return json.Marshal(doc)
}

func unmarshalSnapshot(data []byte) ([]domain.CartLine, error) {
	const op = "storage.unmarshalSnapshot"

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := make([]domain.CartLine, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		if l.ID == "" || l.ProductID == "" || l.Quantity < 1 {
			return nil, fmt.Errorf("%s: invalid line %q", op, l.ID)
		}
		subtotal, err := decimal.NewFromString(l.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lines = append(lines, domain.CartLine{
			ID:       l.ID,
			Product:  domain.Product{ID: l.ProductID},
			Quantity: l.Quantity,
			Subtotal: subtotal,
		})
	}
	return lines, nil
}
