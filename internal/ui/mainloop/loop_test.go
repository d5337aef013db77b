package mainloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestLoop_RunsPostedClosuresInOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 50; i++ {
		v := i
		l.Post(func() { got = append(got, v) })
	}
	require.NoError(t, l.Call(context.Background(), func() {}))

	want := make([]int, 50)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestLoop_PostFromManyGoroutines(t *testing.T) {
	l := startLoop(t)

	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				l.Post(func() { count++ })
			}
		}()
	}
	wg.Wait()

	var seen int
	require.NoError(t, l.Call(context.Background(), func() { seen = count }))
	assert.Equal(t, 200, seen)
}

func TestLoop_AfterFuncPostsOntoLoop(t *testing.T) {
	l := startLoop(t)

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_AfterFuncCancel(t *testing.T) {
	l := startLoop(t)

	fired := false
	stop := l.AfterFunc(time.Hour, func() { fired = true })
	assert.True(t, stop())

	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.False(t, fired)
}

func TestLoop_SurvivesPanickingTask(t *testing.T) {
	l := startLoop(t)

	l.Post(func() { panic("boom") })
	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_PostAfterStopIsDropped(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)

	assert.True(t, l.Stopped())
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestLoop_PostBeforeRun(t *testing.T) {
	l := New()
	ran := false
	require.True(t, l.Post(func() { ran = true }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.NoError(t, l.Call(context.Background(), func() {}))
	cancel()
	<-done
	assert.True(t, ran)
}
