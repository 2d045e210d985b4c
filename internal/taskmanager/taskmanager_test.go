package taskmanager

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebounceCoalescesRapidCalls(t *testing.T) {
	tm := New(nil)
	var calls int32

	for i := 0; i < 5; i++ {
		tm.Debounce("retile:monitor-1", 20*time.Millisecond, func(ctx context.Context, info *TaskInfo) {
			atomic.AddInt32(&calls, 1)
		})
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "only the last of the coalesced calls should ever fire")
}

func TestDebounceReplacesPendingJob(t *testing.T) {
	tm := New(nil)
	firstCtx := make(chan context.Context, 1)

	tm.Debounce("key", 10*time.Millisecond, func(ctx context.Context, info *TaskInfo) {
		firstCtx <- ctx
	})

	var secondRan atomic.Bool
	tm.Debounce("key", time.Hour, func(ctx context.Context, info *TaskInfo) {
		secondRan.Store(true)
	})

	select {
	case ctx := <-firstCtx:
		t.Fatalf("first job should have been replaced before it ran, got ctx=%v", ctx)
	case <-time.After(30 * time.Millisecond):
	}
	require.False(t, secondRan.Load())
}

func TestCancelPreventsScheduledJobFromRunning(t *testing.T) {
	tm := New(nil)
	var ran atomic.Bool

	tm.Debounce("key", 15*time.Millisecond, func(ctx context.Context, info *TaskInfo) {
		ran.Store(true)
	})
	tm.Cancel("key")

	time.Sleep(40 * time.Millisecond)
	require.False(t, ran.Load())
	require.False(t, tm.Pending("key"))
}

func TestPendingReflectsJobLifecycle(t *testing.T) {
	tm := New(nil)
	done := make(chan struct{})

	tm.Debounce("key", 10*time.Millisecond, func(ctx context.Context, info *TaskInfo) {
		close(done)
	})
	require.True(t, tm.Pending("key"))

	<-done
	require.Eventually(t, func() bool { return !tm.Pending("key") }, time.Second, time.Millisecond)
}

func TestStopCancelsAllPendingJobsAndRejectsNewOnes(t *testing.T) {
	tm := New(nil)
	var ran atomic.Bool

	tm.Debounce("a", 15*time.Millisecond, func(ctx context.Context, info *TaskInfo) { ran.Store(true) })
	tm.Stop()

	tm.Debounce("b", time.Millisecond, func(ctx context.Context, info *TaskInfo) { ran.Store(true) })

	time.Sleep(40 * time.Millisecond)
	require.False(t, ran.Load())
}

func TestIsCancelledTreatsNilAsCancelled(t *testing.T) {
	var info *TaskInfo
	require.True(t, info.IsCancelled())

	info = &TaskInfo{}
	require.False(t, info.IsCancelled())
	info.Cancelled = true
	require.True(t, info.IsCancelled())
}
