// Package taskmanager coalesces rapid-fire triggers into one trailing-edge
// call per key; the orchestrator uses it for retile requests, one key per
// (monitor, workspace) pair. Adapted from the teacher's goqite-backed job queue
// (internal/taskmanager/taskmanager.go): the sync.Once-guarded global
// singleton, the per-key TaskInfo cancel token, and the handler-registry
// shape survive; the durable queue/runner does not, since none of this
// core's queued work (a retile recompute) needs to
// survive a process restart (§5 "the only queued work... is in-memory").
package taskmanager

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TaskInfo identifies one pending or in-flight debounced job.
type TaskInfo struct {
	Key       string
	RunID     uint64
	Cancelled bool
}

// IsCancelled reports whether info (or the lack of one) means the caller
// should stop early — nil is treated as cancelled so callers that grabbed a
// stale reference fail closed.
func (info *TaskInfo) IsCancelled() bool {
	return info == nil || info.Cancelled
}

type job struct {
	info   *TaskInfo
	timer  *time.Timer
	cancel context.CancelFunc
}

// TaskManager debounces work by key: each Debounce call for a key replaces
// whatever was previously pending or running under it, cancelling the old
// job's context and TaskInfo first.
type TaskManager struct {
	log *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	nextRun uint64
	stopped bool
}

// New constructs a standalone TaskManager, independent of the process-wide
// singleton — used by tests and by anything that needs its own debounce
// scope.
func New(log *slog.Logger) *TaskManager {
	return &TaskManager{log: log, jobs: make(map[string]*job)}
}

var (
	once     sync.Once
	instance *TaskManager
)

// Init constructs the global TaskManager. Idempotent: later calls return the
// instance built by the first one.
func Init(log *slog.Logger) *TaskManager {
	once.Do(func() {
		instance = New(log)
	})
	return instance
}

// Get returns the global TaskManager, or nil if Init has not run yet.
func Get() *TaskManager { return instance }

// Debounce schedules fn to run after delay on its own goroutine, replacing
// any job already pending or in flight under key. fn receives a context
// that is cancelled, and a TaskInfo marked Cancelled, the moment a newer
// Debounce call for the same key arrives — long-running handlers (e.g. an
// animation batch) should check one of the two and stop early.
func (tm *TaskManager) Debounce(key string, delay time.Duration, fn func(ctx context.Context, info *TaskInfo)) {
	tm.mu.Lock()
	if tm.stopped {
		tm.mu.Unlock()
		return
	}
	tm.cancelLocked(key)

	tm.nextRun++
	info := &TaskInfo{Key: key, RunID: tm.nextRun}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{info: info, cancel: cancel}
	j.timer = time.AfterFunc(delay, func() { tm.fire(key, j, ctx, fn) })
	tm.jobs[key] = j
	tm.mu.Unlock()
}

func (tm *TaskManager) fire(key string, j *job, ctx context.Context, fn func(context.Context, *TaskInfo)) {
	tm.mu.Lock()
	if tm.jobs[key] != j || tm.stopped {
		tm.mu.Unlock()
		return
	}
	delete(tm.jobs, key)
	tm.mu.Unlock()

	defer func() {
		if r := recover(); r != nil && tm.log != nil {
			tm.log.Error("taskmanager: debounced job panicked", "key", key, "error", r)
		}
	}()
	fn(ctx, j.info)
}

// Cancel cancels key's pending/in-flight job, if any, without scheduling a
// replacement.
func (tm *TaskManager) Cancel(key string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cancelLocked(key)
}

func (tm *TaskManager) cancelLocked(key string) {
	if j, ok := tm.jobs[key]; ok {
		j.timer.Stop()
		j.info.Cancelled = true
		j.cancel()
		delete(tm.jobs, key)
	}
}

// Pending reports whether key currently has a scheduled or in-flight job.
func (tm *TaskManager) Pending(key string) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	_, ok := tm.jobs[key]
	return ok
}

// Stop cancels every pending job. Safe to call more than once.
func (tm *TaskManager) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.stopped {
		return
	}
	tm.stopped = true
	for key := range tm.jobs {
		tm.cancelLocked(key)
	}
}
