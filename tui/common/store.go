package common

import "sync"

// Cell is a small observable value. Get and Set are safe from any
// goroutine; subscribers run synchronously on the setter's goroutine.
type Cell[T comparable] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// NewCell creates a cell holding v.
func NewCell[T comparable](v T) *Cell[T] {
	return &Cell[T]{value: v, subs: make(map[int]func(T))}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores v and notifies subscribers. It reports whether the value
// changed; an unchanged value notifies nobody.
func (c *Cell[T]) Set(v T) bool {
	c.mu.Lock()
	if c.value == v {
		c.mu.Unlock()
		return false
	}
	c.value = v
	subs := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	return true
}

// Subscribe registers fn and returns a func that removes it.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Store is the state shared by every video card.
//
// Muted may be written by anyone (the mute key). Ambient has a single
// writer: the card that is currently active. Inactive cards never sample,
// so they never write it.
type Store struct {
	Muted   *Cell[bool]
	Ambient *Cell[string] // hex colour, "" until the first sample
}

// NewStore creates a store. Videos start muted.
func NewStore(muted bool) *Store {
	return &Store{
		Muted:   NewCell(muted),
		Ambient: NewCell(""),
	}
}

// ToggleMuted flips the mute flag and returns the new value.
func (s *Store) ToggleMuted() bool {
	next := !s.Muted.Get()
	s.Muted.Set(next)
	return next
}

// AmbientOr returns the ambient colour, or fallback before the first sample.
func (s *Store) AmbientOr(fallback string) string {
	if v := s.Ambient.Get(); v != "" {
		return v
	}
	return fallback
}
