package ring

import (
	"errors"
	"iter"
)

var (
	// ErrEmpty is returned when removing from an empty list.
	ErrEmpty = errors.New("ring: list is empty")

	// ErrIndexOutOfRange is returned when a position is not below Len.
	ErrIndexOutOfRange = errors.New("ring: index out of range")
)

const nilSlot = -1

// node is one arena slot. A slot is reused after deletion with a bumped
// generation so that handles to the old element stop validating.
type node[T any] struct {
	value T
	next  int32
	prev  int32
	gen   uint32
	live  bool
}

// Handle is a non-owning reference to one element of a List.
// The zero Handle never refers to a live element.
type Handle struct {
	slot int32
	gen  uint32
}

// List is a circular doubly-linked list stored in an arena of indexed nodes.
//
// Inserting or deleting elements never invalidates handles to other
// elements, which lets callers splice new elements in while walking the
// list from a live handle. Front's predecessor is always Back.
//
// List is not safe for concurrent use.
type List[T any] struct {
	nodes []node[T]
	free  []int32
	head  int32
	size  int
}

// New returns a list holding values in order.
func New[T any](values ...T) *List[T] {
	l := &List[T]{head: nilSlot}
	if len(values) > 0 {
		l.nodes = make([]node[T], 0, len(values))
	}
	for _, v := range values {
		l.InsertLast(v)
	}
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.size
}

// Front returns the first element, or the zero Handle if the list is empty.
func (l *List[T]) Front() Handle {
	if l.size == 0 {
		return Handle{}
	}
	return l.handle(l.head)
}

// Back returns the last element, or the zero Handle if the list is empty.
func (l *List[T]) Back() Handle {
	if l.size == 0 {
		return Handle{}
	}
	return l.handle(l.nodes[l.head].prev)
}

// Valid reports whether h refers to a live element of l.
func (l *List[T]) Valid(h Handle) bool {
	if h.slot < 0 || int(h.slot) >= len(l.nodes) {
		return false
	}
	n := &l.nodes[h.slot]
	return n.live && n.gen == h.gen
}

// Next returns the successor of h, wrapping from Back to Front.
func (l *List[T]) Next(h Handle) Handle {
	return l.handle(l.at(h).next)
}

// Prev returns the predecessor of h, wrapping from Front to Back.
func (l *List[T]) Prev(h Handle) Handle {
	return l.handle(l.at(h).prev)
}

// Value returns the element referenced by h.
func (l *List[T]) Value(h Handle) T {
	return l.at(h).value
}

// Set replaces the element referenced by h.
func (l *List[T]) Set(h Handle, v T) {
	l.at(h).value = v
}

// InsertFirst inserts v at the front in O(1).
func (l *List[T]) InsertFirst(v T) Handle {
	if l.size == 0 {
		return l.insertEmpty(v)
	}
	s := l.link(l.nodes[l.head].prev, v)
	l.head = s
	return l.handle(s)
}

// InsertLast inserts v at the back in O(1).
func (l *List[T]) InsertLast(v T) Handle {
	if l.size == 0 {
		return l.insertEmpty(v)
	}
	return l.handle(l.link(l.nodes[l.head].prev, v))
}

// InsertAfter inserts v immediately after h and returns its handle.
func (l *List[T]) InsertAfter(h Handle, v T) Handle {
	l.at(h)
	return l.handle(l.link(h.slot, v))
}

// InsertAt inserts v so that it ends up at position i.
// Positions 0 and Len are O(1); others walk from the nearer end.
func (l *List[T]) InsertAt(v T, i int) (Handle, error) {
	switch {
	case i < 0 || i > l.size:
		return Handle{}, ErrIndexOutOfRange
	case i == 0:
		return l.InsertFirst(v), nil
	case i == l.size:
		return l.InsertLast(v), nil
	}
	prev := l.slotAt(i - 1)
	return l.handle(l.link(prev, v)), nil
}

// DeleteFirst removes and returns the front element.
func (l *List[T]) DeleteFirst() (T, error) {
	if l.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return l.unlink(l.head), nil
}

// DeleteLast removes and returns the back element.
func (l *List[T]) DeleteLast() (T, error) {
	if l.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return l.unlink(l.nodes[l.head].prev), nil
}

// DeleteAt removes and returns the element at position i.
func (l *List[T]) DeleteAt(i int) (T, error) {
	var zero T
	if l.size == 0 {
		return zero, ErrEmpty
	}
	if i < 0 || i >= l.size {
		return zero, ErrIndexOutOfRange
	}
	return l.unlink(l.slotAt(i)), nil
}

// Delete removes the element referenced by h. Other handles stay valid.
func (l *List[T]) Delete(h Handle) T {
	l.at(h)
	return l.unlink(h.slot)
}

// GetAt returns the element at position i.
func (l *List[T]) GetAt(i int) (T, error) {
	if i < 0 || i >= l.size {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return l.nodes[l.slotAt(i)].value, nil
}

// HandleAt returns a handle to the element at position i.
func (l *List[T]) HandleAt(i int) (Handle, error) {
	if i < 0 || i >= l.size {
		return Handle{}, ErrIndexOutOfRange
	}
	return l.handle(l.slotAt(i)), nil
}

// Values returns the elements in order starting at Front.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for _, v := range l.All() {
		out = append(out, v)
	}
	return out
}

// All iterates once around the list starting at Front.
// The successor is read before yielding, so the yielded element may be
// deleted by the loop body.
func (l *List[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		if l.size == 0 {
			return
		}
		s := l.head
		for n := l.size; n > 0; n-- {
			next := l.nodes[s].next
			if !yield(l.handle(s), l.nodes[s].value) {
				return
			}
			if l.size == 0 {
				return
			}
			s = next
		}
	}
}

// Clone returns an independent copy with compacted storage.
func (l *List[T]) Clone() *List[T] {
	return New(l.Values()...)
}

// Clear removes all elements. Every outstanding handle becomes invalid.
func (l *List[T]) Clear() {
	for i := range l.nodes {
		if l.nodes[i].live {
			l.nodes[i].live = false
			l.nodes[i].gen++
			l.free = append(l.free, int32(i))
		}
	}
	l.head = nilSlot
	l.size = 0
}

func (l *List[T]) handle(s int32) Handle {
	return Handle{slot: s, gen: l.nodes[s].gen}
}

func (l *List[T]) at(h Handle) *node[T] {
	if !l.Valid(h) {
		panic("ring: stale or foreign handle")
	}
	return &l.nodes[h.slot]
}

// slotAt walks from the nearer end. i must be in range.
func (l *List[T]) slotAt(i int) int32 {
	s := l.head
	if i <= l.size/2 {
		for ; i > 0; i-- {
			s = l.nodes[s].next
		}
		return s
	}
	for i = l.size - i; i > 0; i-- {
		s = l.nodes[s].prev
	}
	return s
}

func (l *List[T]) alloc(v T) int32 {
	if n := len(l.free); n > 0 {
		s := l.free[n-1]
		l.free = l.free[:n-1]
		nd := &l.nodes[s]
		nd.value = v
		nd.live = true
		return s
	}
	l.nodes = append(l.nodes, node[T]{value: v, gen: 1, live: true})
	return int32(len(l.nodes) - 1)
}

func (l *List[T]) insertEmpty(v T) Handle {
	s := l.alloc(v)
	l.nodes[s].next = s
	l.nodes[s].prev = s
	l.head = s
	l.size = 1
	return l.handle(s)
}

// link inserts v after slot prev.
func (l *List[T]) link(prev int32, v T) int32 {
	s := l.alloc(v)
	next := l.nodes[prev].next
	l.nodes[s].prev = prev
	l.nodes[s].next = next
	l.nodes[prev].next = s
	l.nodes[next].prev = s
	l.size++
	return s
}

func (l *List[T]) unlink(s int32) T {
	nd := &l.nodes[s]
	v := nd.value
	if l.size == 1 {
		l.head = nilSlot
	} else {
		l.nodes[nd.prev].next = nd.next
		l.nodes[nd.next].prev = nd.prev
		if l.head == s {
			l.head = nd.next
		}
	}
	var zero T
	nd.value = zero
	nd.live = false
	nd.gen++
	l.free = append(l.free, s)
	l.size--
	return v
}
