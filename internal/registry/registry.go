// Package registry implements C3, the User-Window Registry: the
// authoritative, ordered list of windows the core currently manages,
// derived from C1's event stream and C2's classification (§4.3).
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"seelencore/internal/eligibility"
	"seelencore/internal/eventsource"
	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// revalidateSpec is the periodic re-classification sweep cadence (§4.3's
// "forgotten hide/show" safety net), expressed as a cron @every spec so
// PauseSweep/ResumeSweep can stop and restart it as a first-class entry
// rather than gating a bare ticker with a bool on every tick.
const revalidateSpec = "@every 2s"

// ChangeKind describes why an Event was published.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	FocusChanged
	Updated
)

func (c ChangeKind) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case FocusChanged:
		return "focus_changed"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// UserWindow is a single tracked, eligible window.
type UserWindow struct {
	Handle      winhandle.WindowHandle
	Class       eligibility.Class
	Title       string
	ClassName   string
	Exe         string
	LastFocusAt time.Time
}

// Event is published on every registry mutation.
type Event struct {
	Kind   ChangeKind
	Window UserWindow
}

// Registry holds the ordered (last-foreground-first) list of managed
// windows and keeps it in sync with C1's event stream.
type Registry struct {
	log    *slog.Logger
	source *eventsource.Source

	mu      sync.Mutex
	order   []winhandle.WindowHandle // index 0 = most recently focused
	windows map[winhandle.WindowHandle]*UserWindow

	subMu sync.Mutex
	subs  map[int]func(Event)
	nextSubID int

	sweep      *cron.Cron
	sweepEntry cron.EntryID
}

// New constructs an empty Registry. Call Start to enumerate existing
// windows and subscribe to the event source.
func New(log *slog.Logger, source *eventsource.Source) *Registry {
	return &Registry{
		log:     log,
		source:  source,
		windows: make(map[winhandle.WindowHandle]*UserWindow),
		subs:    make(map[int]func(Event)),
		sweep:   cron.New(),
	}
}

// Subscribe registers fn for every registry change and returns an
// unsubscribe function.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.subMu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subs[id] = fn
	r.subMu.Unlock()
	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *Registry) notify(e Event) {
	r.subMu.Lock()
	fns := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Windows returns a snapshot of the ordered window list, most recently
// focused first.
func (r *Registry) Windows() []UserWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UserWindow, 0, len(r.order))
	for _, h := range r.order {
		if w, ok := r.windows[h]; ok {
			out = append(out, *w)
		}
	}
	return out
}

// Start enumerates existing top-level windows, classifies each, seeds the
// registry, then subscribes to the event source for ongoing maintenance.
// The returned stop func unsubscribes and halts the revalidation sweep.
func (r *Registry) Start(ctx context.Context) (stop func(), err error) {
	winapi.EnumTopLevelWindows(func(h winapi.HWND) bool {
		handle := winhandle.FromNative(h)
		if class := eligibility.Classify(handle); class.AtLeastInteractable() {
			r.insert(handle, class)
		}
		return true
	})

	unsubSource := r.source.Subscribe(r.onEvent)

	r.sweep.Start()
	r.ResumeSweep()

	go func() {
		<-ctx.Done()
		unsubSource()
		r.sweep.Stop()
	}()

	return func() {
		unsubSource()
		r.sweep.Stop()
	}, nil
}

// PauseSweep and ResumeSweep bracket non-interactive sessions (lock screen,
// remote-desktop disconnect) where OS event delivery can become unreliable
// and the periodic resync would just add churn (§4.3 SessionSuspend/Resume).
// Removing/re-adding the cron entry, rather than gating a ticker with a
// bool, means a paused sweep costs nothing until resumed.
func (r *Registry) PauseSweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sweepEntry != 0 {
		r.sweep.Remove(r.sweepEntry)
		r.sweepEntry = 0
	}
}

func (r *Registry) ResumeSweep() {
	r.mu.Lock()
	if r.sweepEntry == 0 {
		id, err := r.sweep.AddFunc(revalidateSpec, r.revalidateAll)
		if err == nil {
			r.sweepEntry = id
		} else if r.log != nil {
			r.log.Warn("registry: failed to schedule revalidation sweep", "error", err)
		}
	}
	r.mu.Unlock()
	r.revalidateAll()
}

// revalidateAll re-classifies every currently tracked window plus any new
// top-level window, reconciling drift that events alone may have missed.
func (r *Registry) revalidateAll() {
	seen := make(map[winhandle.WindowHandle]bool)
	winapi.EnumTopLevelWindows(func(h winapi.HWND) bool {
		handle := winhandle.FromNative(h)
		seen[handle] = true
		class := eligibility.Classify(handle)
		if class.AtLeastInteractable() {
			r.insertOrUpdate(handle, class)
		} else {
			r.remove(handle)
		}
		return true
	})

	r.mu.Lock()
	stale := make([]winhandle.WindowHandle, 0)
	for h := range r.windows {
		if !seen[h] {
			stale = append(stale, h)
		}
	}
	r.mu.Unlock()
	for _, h := range stale {
		r.remove(h)
	}
}

func (r *Registry) onEvent(e eventsource.Event) {
	switch e.Kind {
	case eventsource.ObjectCreate, eventsource.ObjectShow:
		class := eligibility.Classify(e.Handle)
		if class.AtLeastInteractable() {
			r.insert(e.Handle, class)
		}
	case eventsource.SystemForeground:
		r.focus(e.Handle)
	case eventsource.ObjectNameChange, eventsource.ObjectParentChange:
		r.reclassify(e.Handle)
	case eventsource.ObjectHide:
		// UWP frame hosts legitimately hide their frame while the contained
		// app stays alive; re-classify rather than drop unconditionally.
		if eligibility.Classify(e.Handle).AtLeastInteractable() {
			return
		}
		r.remove(e.Handle)
	case eventsource.ObjectDestroy, eventsource.SystemMinimizeStart:
		r.remove(e.Handle)
	case eventsource.SystemMinimizeEnd:
		class := eligibility.Classify(e.Handle)
		if class.AtLeastInteractable() {
			r.insert(e.Handle, class)
		}
	case eventsource.SessionSuspend:
		r.PauseSweep()
	case eventsource.SessionResume:
		r.ResumeSweep()
	}
}

func (r *Registry) reclassify(h winhandle.WindowHandle) {
	class := eligibility.Classify(h)
	if class.AtLeastInteractable() {
		r.insertOrUpdate(h, class)
		return
	}
	r.remove(h)
}

func (r *Registry) insert(h winhandle.WindowHandle, class eligibility.Class) {
	r.mu.Lock()
	if _, exists := r.windows[h]; exists {
		r.mu.Unlock()
		r.reclassify(h)
		return
	}
	uw := r.buildWindow(h, class)
	r.windows[h] = &uw
	r.order = append([]winhandle.WindowHandle{h}, r.order...)
	r.mu.Unlock()

	r.notify(Event{Kind: Added, Window: uw})
}

func (r *Registry) insertOrUpdate(h winhandle.WindowHandle, class eligibility.Class) {
	r.mu.Lock()
	existing, exists := r.windows[h]
	if !exists {
		r.mu.Unlock()
		r.insert(h, class)
		return
	}
	uw := r.buildWindow(h, class)
	uw.LastFocusAt = existing.LastFocusAt
	*existing = uw
	r.mu.Unlock()

	r.notify(Event{Kind: Updated, Window: uw})
}

func (r *Registry) buildWindow(h winhandle.WindowHandle, class eligibility.Class) UserWindow {
	native := h.Native()
	return UserWindow{
		Handle:    h,
		Class:     class,
		Title:     winapi.WindowText(native),
		ClassName: winapi.ClassName(native),
		Exe:       exeName(native),
	}
}

func exeName(h winapi.HWND) string {
	pid := winapi.ProcessID(h)
	proc, ok := winapi.OpenProcessLimited(pid)
	if !ok {
		return ""
	}
	defer winapi.CloseProcessHandle(proc)
	name, _ := winapi.ImageBaseName(proc)
	return name
}

func (r *Registry) focus(h winhandle.WindowHandle) {
	r.mu.Lock()
	uw, exists := r.windows[h]
	if !exists {
		r.mu.Unlock()
		return
	}
	uw.LastFocusAt = time.Now()

	idx := -1
	for i, oh := range r.order {
		if oh == h {
			idx = i
			break
		}
	}
	if idx > 0 {
		r.order = append(r.order[:idx], r.order[idx+1:]...)
		r.order = append([]winhandle.WindowHandle{h}, r.order...)
	}
	window := *uw
	r.mu.Unlock()

	r.notify(Event{Kind: FocusChanged, Window: window})
}

func (r *Registry) remove(h winhandle.WindowHandle) {
	r.mu.Lock()
	uw, exists := r.windows[h]
	if !exists {
		r.mu.Unlock()
		return
	}
	delete(r.windows, h)
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	window := *uw
	r.mu.Unlock()

	r.notify(Event{Kind: Removed, Window: window})
}
