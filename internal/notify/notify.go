// Package notify keeps the local-only notification panel state: a list of
// transient user-facing messages with read/unread bookkeeping.
package notify

import (
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/urgent2kay/dashboard-core/internal/model"
)

// Center owns the notification list. All methods are safe for concurrent use.
type Center struct {
	mu    sync.RWMutex
	items []model.Notification

	subMu sync.Mutex
	subs  map[int]func(model.Notification)
	nextS int
}

// NewCenter returns an empty notification center.
func NewCenter() *Center {
	return &Center{subs: make(map[int]func(model.Notification))}
}

// Push appends a notification, assigning id and timestamp, and fans it out
// to subscribers.
func (c *Center) Push(typ model.NotificationType, title, message string) model.Notification {
	return c.PushFull(model.Notification{Type: typ, Title: title, Message: message})
}

// PushFull appends a pre-built notification (for entries carrying amount or
// recipient context). ID and timestamp are always assigned here.
func (c *Center) PushFull(n model.Notification) model.Notification {
	id, _ := uuid.NewV4()
	n.ID = id.String()
	n.Timestamp = time.Now()
	n.Read = false

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	c.subMu.Lock()
	for _, fn := range c.subs {
		fn(n)
	}
	c.subMu.Unlock()
	return n
}

// Success pushes a success notification.
func (c *Center) Success(title, message string) { c.Push(model.NotifySuccess, title, message) }

// Info pushes an informational notification.
func (c *Center) Info(title, message string) { c.Push(model.NotifyInfo, title, message) }

// Error pushes an error notification.
func (c *Center) Error(title, message string) { c.Push(model.NotifyError, title, message) }

// Warning pushes a warning notification.
func (c *Center) Warning(title, message string) { c.Push(model.NotifyWarning, title, message) }

// List returns a copy of all notifications, newest first.
func (c *Center) List() []model.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Notification, len(c.items))
	for i := range c.items {
		out[len(c.items)-1-i] = c.items[i]
	}
	return out
}

// Unread returns the count of unread notifications.
func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.items {
		if !c.items[i].Read {
			n++
		}
	}
	return n
}

// MarkRead flags a single notification as read. Unknown ids are ignored.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return
		}
	}
}

// MarkAllRead flags every notification as read.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}

// Clear drops all notifications.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Subscribe registers fn to be called for every pushed notification and
// returns an unsubscribe func.
func (c *Center) Subscribe(fn func(model.Notification)) func() {
	c.subMu.Lock()
	id := c.nextS
	c.nextS++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}
