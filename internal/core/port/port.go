package port

import (
	"context"

	"github.com/ifmais/storefront/internal/core/domain"
)

// Outbound ports.

type (
	// A SnapshotRepository persists the full cart line list under a
	// fixed storage key. Load returns an empty list when no data exists
	// or the stored data fails to parse; Save overwrites the prior
	// value and is best-effort.
	SnapshotRepository interface {
		Load(context.Context) ([]domain.CartLine, error)
		Save(context.Context, []domain.CartLine) error
	}

	CatalogReader interface {
		ReadCatalog(context.Context) (domain.Catalog, error)
	}

	CartEventsProducer interface {
		ProduceEvent(context.Context, domain.CartEvent) error
	}
)

// Inbound ports consumed by the presentation layer.

type (
	CartCommander interface {
		AddToCart(ctx context.Context, p domain.Product)
		RemoveFromCart(ctx context.Context, lineID string)
		UpdateQuantity(ctx context.Context, lineID string, quantity int)
		ClearCart(ctx context.Context)
		ToggleCart(ctx context.Context)
		DismissNotification(ctx context.Context)
	}

	CartViewer interface {
		CartState() domain.CartState
	}

	OrderComposer interface {
		ComposeOrder() (domain.OrderSummary, error)
	}

	CatalogViewer interface {
		Catalog() domain.Catalog
	}

	// A ProductAddsViewer reads the per-product add counter maintained
	// by the cart activity pipeline.
	ProductAddsViewer interface {
		ProductAdds(productID string) (int64, error)
	}
)
