package state

import "sync"

// Cell is an observable value. Subscribers are notified synchronously, in
// subscription order, after every Set or Update. Notification happens outside
// the lock so subscribers may read the cell.
type Cell[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewCell returns a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies subscribers.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
}

// Update applies fn to the current value under the lock and notifies
// subscribers with the result.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	c.value = fn(c.value)
	value := c.value
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
	return value
}

// Subscribe registers fn and returns a function that removes it.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Cell[T]) snapshotSubs() []subscription[T] {
	if len(c.subs) == 0 {
		return nil
	}
	dup := make([]subscription[T], len(c.subs))
	copy(dup, c.subs)
	return dup
}

func notify[T any](subs []subscription[T], value T) {
	for _, s := range subs {
		s.fn(value)
	}
}
