package kafka

import (
	"context"
	"log/slog"

	"github.com/ifmais/storefront/internal/core/port"
	"github.com/lovoo/goka"
)

var _ port.ProductAddsViewer = (*CartActivityView)(nil)

// A CartActivityView serves the per-product add counters maintained by
// [CartActivityProcessor].
type CartActivityView struct {
	gv *goka.View
}

func NewCartActivityView(
	seedBrokers []string, group string,
) (*CartActivityView, error) {
	const op = "NewCartActivityView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		addsCountCodec{},
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &CartActivityView{gv}, nil
}

func (v *CartActivityView) Run(ctx context.Context) {
	const op = "CartActivityView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// ProductAdds returns how many times the product was added to a cart.
// Unknown products read as zero.
func (v *CartActivityView) ProductAdds(productID string) (int64, error) {
	const op = "CartActivityView.ProductAdds"

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}
	if value == nil {
		return 0, nil
	}

	count, ok := value.(int64)
	if !ok {
		return 0, opErr(ErrInvalidValueType, op)
	}
	return count, nil
}
