package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_AllWorkRunsExactlyOnce(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	const n = 500
	var count int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
	}
	wg.Wait()
	assert.EqualValues(t, n, count)
}

func TestSubmit_PerWorkerOrderWithSingleWorker(t *testing.T) {
	// Submit a long ordered chain of closures that append to a shared
	// slice guarded by its own mutex; since only one worker runs at a
	// time when the pool size is 1, submission order must be preserved.
	p := New(1)
	defer p.Shutdown()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	require.Len(t, order, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, i, order[i])
	}
}

func TestShutdown_JoinsWorkersAndStopsAcceptingWork(t *testing.T) {
	p := New(2)
	var ran int64
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(func() {
		atomic.AddInt64(&ran, 1)
		wg.Done()
	})
	wg.Wait()

	p.Shutdown()

	// Submitting after shutdown must not panic and must not execute.
	p.Submit(func() { atomic.AddInt64(&ran, 100) })
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt64(&ran))
}

func TestNew_DefaultsToHardwareParallelismWhenSizeNonPositive(t *testing.T) {
	p := New(0)
	defer p.Shutdown()
	// Just confirm it can still do work; size itself isn't introspectable.
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submitted work never ran")
	}
}
