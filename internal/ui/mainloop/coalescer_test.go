package mainloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	fns    []func()
	refuse bool
}

func (q *fakeQueue) post(fn func()) bool {
	if q.refuse {
		return false
	}
	q.fns = append(q.fns, fn)
	return true
}

func (q *fakeQueue) drain() {
	for len(q.fns) > 0 {
		fn := q.fns[0]
		q.fns = q.fns[1:]
		fn()
	}
}

func TestCoalescer_MergesBurstIntoSingleTask(t *testing.T) {
	q := &fakeQueue{}
	c := NewCoalescer[string](q.post)

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Post("snapshot", func() { value = v })
	}

	require.Len(t, q.fns, 1)
	assert.Equal(t, 1, c.Pending())
	q.drain()

	assert.Equal(t, 5, value)
	assert.Zero(t, c.Pending())
}

func TestCoalescer_KeysAreIndependent(t *testing.T) {
	q := &fakeQueue{}
	c := NewCoalescer[int](q.post)

	var ran []int
	c.Post(1, func() { ran = append(ran, 1) })
	c.Post(2, func() { ran = append(ran, 2) })
	q.drain()

	assert.Equal(t, []int{1, 2}, ran)

	c.Post(1, func() { ran = append(ran, 10) })
	q.drain()
	assert.Equal(t, []int{1, 2, 10}, ran)
}

func TestCoalescer_DropsWorkAfterStop(t *testing.T) {
	q := &fakeQueue{}
	c := NewCoalescer[string](q.post)

	ran := false
	c.Post("publish", func() { ran = true })
	c.Stop()

	require.Len(t, q.fns, 1)
	q.drain()
	assert.False(t, ran)

	c.Post("publish", func() { ran = true })
	assert.Empty(t, q.fns)
}

func TestCoalescer_ForgetsKeyWhenPostRefused(t *testing.T) {
	q := &fakeQueue{refuse: true}
	c := NewCoalescer[string](q.post)

	c.Post("publish", func() {})
	assert.Zero(t, c.Pending())
}

func TestNewCoalescer_PanicsOnNilPost(t *testing.T) {
	assert.Panics(t, func() { _ = NewCoalescer[string](nil) })
}
