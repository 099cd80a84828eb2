package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/pkg/schema"
	"github.com/lovoo/goka"
)

// A cartEventCodec used for serde [schema.CartEventV1]
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// An addsCountCodec persists the per-product add counter.
type addsCountCodec struct{}

func (addsCountCodec) Encode(v any) ([]byte, error) {
	const op = "addsCountCodec.Encode"
	c, ok := v.(int64)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), c, 10), nil
}

func (addsCountCodec) Decode(data []byte) (any, error) {
	const op = "addsCountCodec.Decode"
	c, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return c, nil
}

// A CartActivityProcessor counts add-to-cart events per product into
// its group table; the table is served by [CartActivityView].
type CartActivityProcessor struct {
	opPrefix string
	gp       *goka.Processor
}

func NewCartActivityProcessor(
	seedBrokers []string, stream, group string, eventSerde Serde,
) (*CartActivityProcessor, error) {
	const op = "NewCartActivityProcessor"

	p := &CartActivityProcessor{opPrefix: "CartActivityProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(stream),
			newCartEventCodec(eventSerde),
			p.processFn,
		),
		goka.Persist(addsCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.gp = gp
	return p, nil
}

func (p *CartActivityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	evt, ok := msg.(schema.CartEventV1)
	if !ok {
		log.Error("unexpected message type")
		return
	}

	if evt.Action != string(domain.CartActionLineAdded) {
		return
	}

	var count int64
	if v := ctx.Value(); v != nil {
		count = v.(int64)
	}
	ctx.SetValue(count + 1)
}

// Run runs the processor and blocks the current goroutine while it is
// preparing to ready state.
func (p *CartActivityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "Run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *CartActivityProcessor) runProc(
	ctx context.Context, stopFn context.CancelFunc,
) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *CartActivityProcessor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *CartActivityProcessor) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}
