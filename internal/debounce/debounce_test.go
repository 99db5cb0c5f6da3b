package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_FiresAfterDelay(t *testing.T) {
	d := New(20 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_BurstCollapsesToOne(t *testing.T) {
	d := New(50 * time.Millisecond)
	var fired atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_LastCallbackWins(t *testing.T) {
	d := New(30 * time.Millisecond)
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() { last.Store(n) })
	}

	assert.Eventually(t, func() bool { return last.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := New(30 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestDebouncer_ReusableAfterStop(t *testing.T) {
	d := New(10 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()
	d.Trigger(func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}
