package coordinator

import "slices"

// observers is a subscription list. Loop-affine: no locking.
type observers[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// add registers fn and returns its unsubscribe function.
func (o *observers[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	id := o.next
	o.next++
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		o.subs = slices.DeleteFunc(o.subs, func(s subscriber[T]) bool { return s.id == id })
	}
}

// notify calls every subscriber. Subscribers may unsubscribe while notified.
func (o *observers[T]) notify(v T) {
	for _, s := range slices.Clone(o.subs) {
		s.fn(v)
	}
}

func (o *observers[T]) reset() {
	o.subs = nil
}
