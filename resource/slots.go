package resource

// slots is the handle storage behind a Table. Freed handles are reused
// LIFO. Callers hold the table lock.
type slots[T any] struct {
	entries []slot[T]
	free    []Handle
	live    int
	peak    int
}

type slot[T any] struct {
	value T
	valid bool
}

func newSlots[T any](capacity int) slots[T] {
	return slots[T]{
		entries: make([]slot[T], 0, capacity),
		free:    make([]Handle, 0, 16),
	}
}

func (s *slots[T]) put(value T) Handle {
	s.live++
	if s.live > s.peak {
		s.peak = s.live
	}

	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[h-1] = slot[T]{value: value, valid: true}
		return h
	}

	s.entries = append(s.entries, slot[T]{value: value, valid: true})
	return Handle(len(s.entries))
}

func (s *slots[T]) lookup(h Handle) (*slot[T], bool) {
	if h == 0 || int(h) > len(s.entries) {
		return nil, false
	}
	e := &s.entries[h-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}

func (s *slots[T]) take(h Handle) (T, bool) {
	e, ok := s.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	value := e.value
	*e = slot[T]{}
	s.free = append(s.free, h)
	s.live--
	return value, true
}

func (s *slots[T]) each(fn func(Handle, T) bool) {
	for i := range s.entries {
		if s.entries[i].valid {
			if !fn(Handle(i+1), s.entries[i].value) {
				return
			}
		}
	}
}

func (s *slots[T]) reset() {
	s.entries = nil
	s.free = nil
	s.live = 0
}
