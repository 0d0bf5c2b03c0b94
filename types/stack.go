package types

// Stack keeps the most recent entries of an append-only log, oldest first.
// Once full, every Push evicts the oldest entry.
//
// Stack is not safe for concurrent use.
type Stack[T any] struct {
	limit int
	items []T
}

// NewStack returns an empty Stack holding at most limit entries. A limit of
// zero or less keeps nothing.
func NewStack[T any](limit int) *Stack[T] {
	if limit < 0 {
		limit = 0
	}
	return &Stack[T]{
		limit: limit,
		items: make([]T, 0, limit),
	}
}

// Push appends element and then trims from the front until the length is
// within the limit.
func (s *Stack[T]) Push(element T) {
	s.items = append(s.items, element)
	if over := len(s.items) - s.limit; over > 0 {
		// zero the evicted slots so they can be collected
		var zero T
		for i := 0; i < over; i++ {
			s.items[i] = zero
		}
		s.items = append(s.items[:0], s.items[over:]...)
	}
}

// Clear drops every entry. The limit is unchanged.
func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Items returns a copy of the entries, oldest first.
func (s *Stack[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Last returns the newest entry.
func (s *Stack[T]) Last() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Limit() int {
	return s.limit
}
