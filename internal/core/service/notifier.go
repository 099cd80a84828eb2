package service

import (
	"sync"
	"time"

	"github.com/ifmais/storefront/internal/core/domain"
)

const DefaultNotificationTTL = 3 * time.Second

// A Notifier manages the single "added to cart" notification.
// Showing a new notification replaces the product and restarts the
// auto-dismiss timer; the sequence number invalidates stale timers so
// an old dismissal can never hide a newer notification.
type Notifier struct {
	mu        sync.Mutex
	ttl       time.Duration
	seq       uint64
	timer     *time.Timer
	visible   bool
	product   domain.Product
	onDismiss func()
}

// NewNotifier builds a notifier with the given auto-dismiss delay.
// onDismiss is invoked after a timer expiry transition, outside the
// notifier lock.
func NewNotifier(ttl time.Duration, onDismiss func()) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, onDismiss: onDismiss}
}

func (n *Notifier) Show(p domain.Product) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.visible = true
	n.product = p
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
}

// Dismiss hides the notification and invalidates any pending timer.
// The caller is responsible for broadcasting the state change.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hideLocked()
}

func (n *Notifier) State() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return domain.Notification{Visible: n.visible, Product: n.product}
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq || !n.visible {
		n.mu.Unlock()
		return
	}
	n.hideLocked()
	n.mu.Unlock()

	if n.onDismiss != nil {
		n.onDismiss()
	}
}

func (n *Notifier) hideLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	n.visible = false
	n.product = domain.Product{}
}
