package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestEvery_RunsRepeatedly(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	h := Every(context.Background(), 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	h.Stop()
}

func TestEvery_Immediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	ran := make(chan struct{}, 1)
	h := Every(context.Background(), time.Hour, func(ctx context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}, Immediately())
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expected immediate run")
	}
}

func TestEvery_NotImmediateByDefault(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	h := Every(context.Background(), time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})
	time.Sleep(20 * time.Millisecond)
	h.Stop()

	assert.Equal(t, int32(0), runs.Load())
}

func TestStop_NoRunsAfterReturn(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	h := Every(context.Background(), time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, time.Second, time.Millisecond)

	h.Stop()
	after := runs.Load()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, after, runs.Load())
}

func TestEvery_ParentCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	h := Every(ctx, time.Millisecond, func(ctx context.Context) {})
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after parent cancel")
	}
}

func TestStop_WaitsForRunningTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	var finished atomic.Bool
	h := Every(context.Background(), time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	}, Immediately())

	<-started
	h.Stop()
	assert.True(t, finished.Load())
}
