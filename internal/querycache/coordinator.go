// Package querycache coordinates server-derived entity caches: keyed
// fetch with single-flight collapse, invalidate-by-key, and
// refetch-after-mutation with a delayed compensating pass.
package querycache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/urgent2kay/dashboard-core/internal/errs"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Loader produces the value for a cache key.
type Loader func(ctx context.Context) (any, error)

// Entry is an immutable snapshot of one cache slot.
type Entry struct {
	Status Status
	Value  any
	Err    error
}

// Notifier receives transient user-facing signals for mutation outcomes.
// Satisfied by notify.Center.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// SessionGate reports whether authenticated queries may run.
// Satisfied by session.Store.
type SessionGate interface {
	Authenticated() bool
}

type entry struct {
	status Status
	value  any
	err    error
	stale  bool
	loader Loader // last loader seen for this key, reused by refetches
}

// Coordinator owns the per-key cache. All exported methods are safe for
// concurrent use; per-key loads are collapsed so at most one is in flight.
type Coordinator struct {
	mu        sync.Mutex
	entries   map[string]*entry
	observers map[string]int
	pending   map[string]Loader // gated fetches waiting for a complete session

	group    singleflight.Group
	delay    time.Duration
	notifier Notifier
	gate     SessionGate
	log      *zap.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier wires transient mutation signals.
func WithNotifier(n Notifier) Option { return func(c *Coordinator) { c.notifier = n } }

// WithSessionGate wires authentication gating for FetchAuth.
func WithSessionGate(g SessionGate) Option { return func(c *Coordinator) { c.gate = g } }

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(c *Coordinator) { c.log = l } }

// New constructs a Coordinator. compensationDelay is the wait before the
// second refetch issued after an observed invalidation; it covers backend
// processing lag after deletes and is best-effort only.
func New(compensationDelay time.Duration, opts ...Option) *Coordinator {
	c := &Coordinator{
		entries:   make(map[string]*entry),
		observers: make(map[string]int),
		pending:   make(map[string]Loader),
		delay:     compensationDelay,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Coordinator) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{status: StatusIdle}
		c.entries[key] = e
	}
	return e
}

// Fetch returns the cached value for key when fresh, otherwise runs loader.
// Concurrent calls for the same key attach to the single in-flight load.
// A failed load is not retried; the caller must re-invoke Fetch.
func (c *Coordinator) Fetch(ctx context.Context, key string, loader Loader) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.loader = loader
	if e.status == StatusSuccess && !e.stale {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	e.status = StatusLoading
	c.mu.Unlock()

	v, err, shared := c.group.Do(key, func() (any, error) {
		return loader(ctx)
	})

	c.mu.Lock()
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.value = v
		e.err = nil
		e.stale = false
	}
	c.mu.Unlock()

	if shared {
		c.log.Debug("fetch attached to in-flight load", zap.String("key", key))
	}
	return v, err
}

// FetchAuth is Fetch for queries that require a complete session. With an
// incomplete session the loader is never invoked; the fetch is queued and
// re-run when SessionChanged reports the session became complete.
func (c *Coordinator) FetchAuth(ctx context.Context, key string, loader Loader) (any, error) {
	if c.gate == nil || !c.gate.Authenticated() {
		c.mu.Lock()
		c.pending[key] = loader
		c.mu.Unlock()
		return nil, errs.ErrAuthRequired
	}
	return c.Fetch(ctx, key, loader)
}

// SessionChanged must be called when the session state transitions. When
// the session is now complete, queued gated fetches run in the background.
func (c *Coordinator) SessionChanged() {
	if c.gate == nil || !c.gate.Authenticated() {
		return
	}
	c.mu.Lock()
	pend := c.pending
	c.pending = make(map[string]Loader)
	c.mu.Unlock()

	for key, loader := range pend {
		go func(key string, loader Loader) {
			_, _ = c.Fetch(context.Background(), key, loader)
		}(key, loader)
	}
}

// Subscribe registers an observer of key and returns an unsubscribe func.
// Only observed keys are refetched on invalidation.
func (c *Coordinator) Subscribe(key string) func() {
	c.mu.Lock()
	c.observers[key]++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if c.observers[key] > 0 {
				c.observers[key]--
			}
			c.mu.Unlock()
		})
	}
}

// Invalidate marks key stale. An observed key gets one immediate refetch
// plus one compensating refetch after the configured delay; an unobserved
// key is only marked and will reload on next Fetch.
func (c *Coordinator) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.stale = true
	observed := c.observers[key] > 0
	hasLoader := e.loader != nil
	c.mu.Unlock()

	if !observed || !hasLoader {
		return
	}
	go c.refetch(key)
	time.AfterFunc(c.delay, func() { c.refetch(key) })
}

// refetch forces a reload of key using its last loader. Unsubscribed keys
// may still complete an in-flight refetch; the result is stored but no
// longer observed.
func (c *Coordinator) refetch(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.loader == nil {
		c.mu.Unlock()
		return
	}
	e.stale = true
	loader := e.loader
	c.mu.Unlock()

	if _, err := c.Fetch(context.Background(), key, loader); err != nil {
		c.log.Warn("refetch failed", zap.String("key", key), zap.Error(err))
	}
}

// Mutate runs a write operation. On success the user gets a transient
// success signal and the dependent keys are invalidated; on failure the
// cache is left untouched and the error is surfaced without retry.
func (c *Coordinator) Mutate(ctx context.Context, title string, op func(ctx context.Context) error, keys ...string) error {
	if err := op(ctx); err != nil {
		if c.notifier != nil {
			c.notifier.Error(title, err.Error())
		}
		return err
	}
	if c.notifier != nil {
		c.notifier.Success(title, "completed")
	}
	for _, k := range keys {
		c.Invalidate(k)
	}
	return nil
}

// Snapshot returns the current state of key.
func (c *Coordinator) Snapshot(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{Status: StatusIdle}
	}
	return Entry{Status: e.status, Value: e.value, Err: e.err}
}
