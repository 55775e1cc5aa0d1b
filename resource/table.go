package resource

import (
	"sync"
)

// Table maps non-zero handles to values and reports every insert and
// removal to its observers.
type Table[T any] struct {
	name      string
	limit     int
	store     slots[T]
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// Option configures a Table.
type Option func(*tableConfig)

type tableConfig struct {
	capacity int
	limit    int
}

// WithCapacity preallocates room for n handles.
func WithCapacity(n int) Option {
	return func(c *tableConfig) { c.capacity = n }
}

// WithLimit caps the number of live handles. Zero means unbounded.
func WithLimit(n int) Option {
	return func(c *tableConfig) { c.limit = n }
}

// NewTable creates a named table. The name is carried on every Event.
func NewTable[T any](name string, opts ...Option) *Table[T] {
	cfg := tableConfig{capacity: 64}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Table[T]{
		name:  name,
		limit: cfg.limit,
		store: newSlots[T](cfg.capacity),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Insert adds a value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}
	if t.limit > 0 && t.store.live >= t.limit {
		t.mu.Unlock()
		return 0, ErrFull
	}
	h := t.store.put(value)
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Table: t.name, Handle: h, Value: value})
	return h, nil
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.store.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Contains reports whether h is live.
func (t *Table[T]) Contains(h Handle) bool {
	_, ok := t.Get(h)
	return ok
}

// Remove drops a handle and returns (value, true) if it was live.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	t.mu.Lock()
	value, ok := t.store.take(h)
	t.mu.Unlock()
	if !ok {
		return value, false
	}

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{Type: EventDropped, Table: t.name, Handle: h, Value: value})
	return value, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.live
}

// Peak returns the highest number of simultaneously live handles.
func (t *Table[T]) Peak() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.peak
}

// SetLimit changes the live handle cap. It never evicts.
func (t *Table[T]) SetLimit(n int) {
	t.mu.Lock()
	t.limit = n
	t.mu.Unlock()
}

// Each calls fn for every live handle until fn returns false. fn must not
// modify the table.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.store.each(fn)
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear removes every live handle, notifying observers for each.
func (t *Table[T]) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close clears the table and rejects further inserts.
func (t *Table[T]) Close() error {
	t.Clear()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.store.reset()
	return nil
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
