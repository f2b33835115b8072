// Package notify manages the single transient notification slot shown to the
// user. A new notification always replaces the previous one immediately, and
// every notification hides itself after a fixed delay unless it has already
// been replaced or cleared.
package notify

import (
	"sync"
	"time"

	"github.com/eventsphere/client-core/internal/model"
	"github.com/eventsphere/client-core/internal/stream"
)

// DefaultAutoHide is how long a notification stays visible.
const DefaultAutoHide = 3000 * time.Millisecond

// Center owns the notification slot and its expiry timer.
type Center struct {
	mu       sync.Mutex
	autoHide time.Duration
	timer    *time.Timer
	slot     *stream.Value[*model.Notification]
}

// Option configures a Center.
type Option func(*Center)

// WithAutoHide overrides the auto-hide delay. Tests use this to keep expiry
// observable without waiting three seconds.
func WithAutoHide(d time.Duration) Option {
	return func(c *Center) { c.autoHide = d }
}

// NewCenter creates a Center with an empty slot.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		autoHide: DefaultAutoHide,
		slot:     stream.New[*model.Notification](nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show publishes a notification, replacing whatever was visible, and arms a
// delayed clear. The previous notification's timer is stopped so only the
// newest notification's own deadline governs expiry, even when the new
// message and type are identical to the old ones.
func (c *Center) Show(message string, typ model.NotificationType) {
	n := &model.Notification{Type: typ, Message: message}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.slot.Set(n)
	c.timer = time.AfterFunc(c.autoHide, func() { c.expire(n) })
}

// ShowSuccess publishes a success notification.
func (c *Center) ShowSuccess(message string) { c.Show(message, model.NotifySuccess) }

// ShowError publishes an error notification.
func (c *Center) ShowError(message string) { c.Show(message, model.NotifyError) }

// ShowInfo publishes an info notification.
func (c *Center) ShowInfo(message string) { c.Show(message, model.NotifyInfo) }

// expire is the delayed clear for n. A timer may still fire after it was
// stopped if the callback was already underway, so the slot content is
// checked again: only a notification with the same message and type is
// cleared, never a newer, different one.
func (c *Center) expire(n *model.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.slot.Get()
	if cur != nil && cur.Message == n.Message && cur.Type == n.Type {
		c.slot.Set(nil)
	}
}

// Clear empties the slot immediately. Pending timers are stopped; one that
// has already fired finds the slot empty and does nothing.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.slot.Set(nil)
}

// Current returns the visible notification, or nil when the slot is empty.
func (c *Center) Current() *model.Notification {
	return c.slot.Get()
}

// Subscribe registers fn for slot changes; fn receives the current value
// immediately, then every change until cancel is called.
func (c *Center) Subscribe(fn func(*model.Notification)) (cancel func()) {
	return c.slot.Subscribe(fn)
}

// Close stops any pending timer. The slot keeps its last value; Close is for
// process teardown, not for hiding notifications.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
