package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CartCommander = (*CartService)(nil)
var _ port.CartViewer = (*CartService)(nil)
var _ port.OrderComposer = (*CartService)(nil)
var _ port.CatalogViewer = (*CartService)(nil)

// A CartService owns the authoritative cart state. Commands are
// serialized by the store mutex; every committed mutation is saved to
// the snapshot repository, emitted as an activity event and broadcast
// synchronously to subscribers before the command returns. Snapshot
// and event failures are logged, never rolled back.
type CartService struct {
	mu          sync.Mutex
	lines       []domain.CartLine
	open        bool
	subscribers []func(domain.CartState)

	catalog   domain.Catalog
	snapshots port.SnapshotRepository
	events    port.CartEventsProducer
	notifier  *Notifier
}

func New(
	catalog domain.Catalog,
	snapshots port.SnapshotRepository,
	events port.CartEventsProducer,
	notificationTTL time.Duration,
) *CartService {
	s := &CartService{
		catalog:   catalog,
		snapshots: snapshots,
		events:    events,
	}
	s.notifier = NewNotifier(notificationTTL, s.broadcast)
	return s
}

// Restore loads the persisted line list and re-resolves each line's
// product against the live catalog. Missing or corrupt data and lines
// for unknown products are dropped silently: the cart starts empty
// rather than failing.
func (s *CartService) Restore(ctx context.Context) {
	const op = "CartService.Restore"
	log := slog.With("op", op)

	stored, err := s.snapshots.Load(ctx)
	if err != nil {
		log.Warn("failed to load cart snapshot, starting empty", "err", err)
		return
	}

	var lines []domain.CartLine
	for _, l := range stored {
		p, err := s.catalog.ProductByID(l.Product.ID)
		if err != nil {
			log.Warn("dropping line for unknown product",
				"productID", l.Product.ID)
			continue
		}
		l.Product = p
		lines = append(lines, l)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	log.Info("cart restored", "nLines", len(lines))
}

// OnChange registers a subscriber invoked synchronously after every
// committed state change, including notification transitions.
func (s *CartService) OnChange(fn func(domain.CartState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *CartService) AddToCart(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	var line domain.CartLine
	if i := s.lineIndexByProduct(p.ID); i >= 0 {
		s.lines[i].Quantity++
		s.lines[i].Subtotal = lineSubtotal(p.Price, s.lines[i].Quantity)
		line = s.lines[i]
	} else {
		line = domain.CartLine{
			ID:       uuid.NewString(),
			Product:  p,
			Quantity: 1,
			Subtotal: p.Price,
		}
		s.lines = append(s.lines, line)
	}
	lines := s.copyLinesLocked()
	s.mu.Unlock()

	s.persist(ctx, lines)
	s.notifier.Show(p)
	s.emit(ctx, domain.CartEvent{
		Action:    domain.CartActionLineAdded,
		ProductID: p.ID,
		Title:     p.Title,
		LineID:    line.ID,
		Quantity:  line.Quantity,
		Subtotal:  line.Subtotal.String(),
		Total:     domain.LinesTotal(lines).String(),
	})
	s.broadcast()
}

func (s *CartService) RemoveFromCart(ctx context.Context, lineID string) {
	s.mu.Lock()
	removed, ok := s.removeLineLocked(lineID)
	if !ok {
		s.mu.Unlock()
		return
	}
	lines := s.copyLinesLocked()
	s.mu.Unlock()

	s.persist(ctx, lines)
	s.emit(ctx, domain.CartEvent{
		Action:    domain.CartActionLineRemoved,
		ProductID: removed.Product.ID,
		Title:     removed.Product.Title,
		LineID:    removed.ID,
		Total:     domain.LinesTotal(lines).String(),
	})
	s.broadcast()
}

// UpdateQuantity sets the line quantity; a non-positive quantity is
// normalized to a removal. Unknown line IDs are a no-op.
func (s *CartService) UpdateQuantity(
	ctx context.Context, lineID string, quantity int,
) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, lineID)
		return
	}

	s.mu.Lock()
	i := s.lineIndex(lineID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = quantity
	s.lines[i].Subtotal = lineSubtotal(s.lines[i].Product.Price, quantity)
	line := s.lines[i]
	lines := s.copyLinesLocked()
	s.mu.Unlock()

	s.persist(ctx, lines)
	s.emit(ctx, domain.CartEvent{
		Action:    domain.CartActionQuantityChanged,
		ProductID: line.Product.ID,
		Title:     line.Product.Title,
		LineID:    line.ID,
		Quantity:  line.Quantity,
		Subtotal:  line.Subtotal.String(),
		Total:     domain.LinesTotal(lines).String(),
	})
	s.broadcast()
}

func (s *CartService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.persist(ctx, nil)
	s.emit(ctx, domain.CartEvent{
		Action: domain.CartActionCleared,
		Total:  decimal.Zero.String(),
	})
	s.broadcast()
}

// ToggleCart flips the cart panel visibility. Pure UI state: lines and
// totals are untouched and nothing is persisted or emitted.
func (s *CartService) ToggleCart(ctx context.Context) {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()

	s.broadcast()
}

func (s *CartService) DismissNotification(ctx context.Context) {
	s.notifier.Dismiss()
	s.broadcast()
}

func (s *CartService) CartState() domain.CartState {
	s.mu.Lock()
	lines := s.copyLinesLocked()
	open := s.open
	s.mu.Unlock()

	return domain.CartState{
		Lines:        lines,
		Total:        domain.LinesTotal(lines),
		Open:         open,
		Notification: s.notifier.State(),
	}
}

func (s *CartService) Catalog() domain.Catalog {
	return s.catalog
}

func (s *CartService) lineIndex(lineID string) int {
	for i, l := range s.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}

func (s *CartService) lineIndexByProduct(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *CartService) removeLineLocked(
	lineID string,
) (domain.CartLine, bool) {
	i := s.lineIndex(lineID)
	if i < 0 {
		return domain.CartLine{}, false
	}
	removed := s.lines[i]
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return removed, true
}

func (s *CartService) copyLinesLocked() []domain.CartLine {
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

func (s *CartService) persist(ctx context.Context, lines []domain.CartLine) {
	const op = "CartService.persist"

	err := s.snapshots.Save(ctx, lines)
	if err != nil {
		slog.Warn("failed to save cart snapshot, in-memory state stays authoritative",
			"op", op, "err", err)
	}
}

func (s *CartService) emit(ctx context.Context, evt domain.CartEvent) {
	const op = "CartService.emit"

	if s.events == nil {
		return
	}
	err := s.events.ProduceEvent(ctx, evt)
	if err != nil {
		slog.Warn("failed to produce cart event", "op", op, "err", err)
	}
}

func (s *CartService) broadcast() {
	state := s.CartState()

	s.mu.Lock()
	subscribers := make([]func(domain.CartState), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

func lineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
