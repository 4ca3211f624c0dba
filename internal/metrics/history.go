package metrics

// History is a fixed capacity ring of the most recent items.
type History[T any] struct {
	items []T
	next  int
	full  bool
}

// NewHistory creates a history holding at most capacity items.
// Capacity below one is treated as one.
func NewHistory[T any](capacity int) *History[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &History[T]{items: make([]T, capacity)}
}

// Push appends an item, dropping the oldest when full.
func (h *History[T]) Push(item T) {
	h.items[h.next] = item
	h.next = (h.next + 1) % len(h.items)
	if h.next == 0 {
		h.full = true
	}
}

// Items returns the held items, oldest first.
func (h *History[T]) Items() []T {
	if !h.full {
		out := make([]T, h.next)
		copy(out, h.items[:h.next])
		return out
	}
	out := make([]T, 0, len(h.items))
	out = append(out, h.items[h.next:]...)
	return append(out, h.items[:h.next]...)
}
