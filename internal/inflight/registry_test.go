package inflight_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Janriisasi/hanceai/internal/inflight"
)

func TestRegistry_CancelInvokesHandleOnce(t *testing.T) {
	reg := inflight.New()

	var calls int32
	reg.Register("req_1", func() { atomic.AddInt32(&calls, 1) })

	assert.True(t, reg.Cancel("req_1"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, 0, reg.Len())

	// A second cancel after removal is a silent no-op.
	assert.False(t, reg.Cancel("req_1"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRegistry_CancelUnknownID(t *testing.T) {
	reg := inflight.New()

	assert.NotPanics(t, func() {
		assert.False(t, reg.Cancel("never-registered"))
	})
}

func TestRegistry_RemoveWithoutCancelling(t *testing.T) {
	reg := inflight.New()

	var calls int32
	reg.Register("req_1", func() { atomic.AddInt32(&calls, 1) })

	reg.Remove("req_1")
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
	assert.False(t, reg.Cancel("req_1"))

	// Removing an absent entry must not panic either.
	assert.NotPanics(t, func() { reg.Remove("req_1") })
}

func TestRegistry_DuplicateRegisterOverwrites(t *testing.T) {
	reg := inflight.New()

	var first, second int32
	reg.Register("req_1", func() { atomic.AddInt32(&first, 1) })
	reg.Register("req_1", func() { atomic.AddInt32(&second, 1) })

	assert.True(t, reg.Cancel("req_1"))
	assert.EqualValues(t, 0, atomic.LoadInt32(&first))
	assert.EqualValues(t, 1, atomic.LoadInt32(&second))
}

// Simulates the disconnect-observer racing the explicit abort endpoint for
// the same entry: exactly one of them may invoke the handle.
func TestRegistry_ConcurrentCancelInvokesExactlyOnce(t *testing.T) {
	for i := 0; i < 100; i++ {
		reg := inflight.New()

		var calls int32
		reg.Register("req_1", func() { atomic.AddInt32(&calls, 1) })

		var wg sync.WaitGroup
		var wins int32
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if reg.Cancel("req_1") {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
		assert.EqualValues(t, 1, atomic.LoadInt32(&wins))
		assert.Equal(t, 0, reg.Len())
	}
}
