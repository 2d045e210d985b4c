package positioning

import (
	"sync"
	"time"

	"seelencore/internal/winhandle"
	"seelencore/pkg/rect"
	"seelencore/pkg/winapi"
)

// minFrameInterval caps the animator at roughly 144fps, matching the
// original's min_frame_duration (lib.rs's 7ms sleep floor).
const minFrameInterval = 7 * time.Millisecond

// windowAnimation tracks one handle's in-flight transition. interrupt is
// closed to cancel; done is closed when the goroutine exits, replacing the
// Rust version's mpsc::Sender + JoinHandle pair.
type windowAnimation struct {
	interrupt chan struct{}
	done      chan struct{}
}

// Orchestrator animates many windows concurrently, each independently
// interruptible — a batch re-trigger for one handle cancels only that
// handle's in-flight animation, leaving the rest running.
type Orchestrator struct {
	mu         sync.Mutex
	animations map[winhandle.WindowHandle]*windowAnimation
}

// NewOrchestrator constructs an empty Orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{animations: make(map[winhandle.WindowHandle]*windowAnimation)}
}

// OnEnd is invoked once an animation finishes or is interrupted; cancelled
// reports which of those happened.
type OnEnd func(handle winhandle.WindowHandle, cancelled bool)

// AnimateBatch starts (or restarts) a transition to each handle's target
// rect concurrently. A handle already animating is interrupted and
// restarted with the new target; unrelated handles are untouched.
func (o *Orchestrator) AnimateBatch(targets map[winhandle.WindowHandle]rect.Rect, duration time.Duration, easing Easing, onEnd OnEnd) {
	for h, target := range targets {
		o.Animate(h, target, duration, easing, onEnd)
	}
}

// Animate starts (or restarts) a single handle's transition.
func (o *Orchestrator) Animate(handle winhandle.WindowHandle, target rect.Rect, duration time.Duration, easing Easing, onEnd OnEnd) {
	o.mu.Lock()
	if existing, ok := o.animations[handle]; ok {
		close(existing.interrupt)
	}
	anim := &windowAnimation{interrupt: make(chan struct{}), done: make(chan struct{})}
	o.animations[handle] = anim
	o.mu.Unlock()

	go func() {
		defer close(anim.done)
		cancelled := o.perform(handle, target, duration, easing, anim.interrupt)

		o.mu.Lock()
		if o.animations[handle] == anim {
			delete(o.animations, handle)
		}
		o.mu.Unlock()

		if onEnd != nil {
			onEnd(handle, cancelled)
		}
	}()
}

// IsAnimating reports whether handle currently has an in-flight
// transition.
func (o *Orchestrator) IsAnimating(handle winhandle.WindowHandle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.animations[handle]
	return ok
}

func (o *Orchestrator) perform(handle winhandle.WindowHandle, target rect.Rect, duration time.Duration, easing Easing, interrupt <-chan struct{}) bool {
	native := handle.Native()
	from, err := winapi.GetRect(native)
	if err != nil {
		return false
	}
	if from.Equal(target) {
		return false
	}
	sizeChanging := from.Width() != target.Width() || from.Height() != target.Height()

	start := time.Now()
	lastFrame := start

	for {
		select {
		case <-interrupt:
			return true
		default:
		}

		elapsed := time.Since(start)
		progress := 1.0
		if duration > 0 {
			progress = float64(elapsed) / float64(duration)
			if progress > 1 {
				progress = 1
			}
		}

		current := rect.Lerp(from, target, easing.Y(progress))
		_ = winapi.SetPosition(native, current, false, !sizeChanging)

		if progress >= 1 {
			break
		}

		since := time.Since(lastFrame)
		if since < minFrameInterval {
			time.Sleep(minFrameInterval - since)
		}
		lastFrame = time.Now()
	}

	winapi.ForceRedraw(native)
	return false
}
