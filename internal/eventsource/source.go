package eventsource

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// eventMin/eventMax bound the WinEvent hook installation to the codes the
// core actually consumes (§4.1's exhaustive raw list).
const (
	eventMin = winapi.EventSystemForeground
	eventMax = winapi.EventObjectParentChange
)

// rawToKind maps a raw WinEvent hook code to the core's normalised Kind.
// Synthetic kinds have no raw counterpart — they're derived in deriveSynthetic.
var rawToKind = map[uint32]Kind{
	winapi.EventObjectCreate:         ObjectCreate,
	winapi.EventObjectDestroy:        ObjectDestroy,
	winapi.EventObjectShow:           ObjectShow,
	winapi.EventObjectHide:           ObjectHide,
	winapi.EventObjectFocus:          ObjectFocus,
	winapi.EventObjectLocationChange: ObjectLocationChange,
	winapi.EventObjectNameChange:     ObjectNameChange,
	winapi.EventObjectParentChange:   ObjectParentChange,
	winapi.EventSystemForeground:     SystemForeground,
	winapi.EventSystemMinimizeStart:  SystemMinimizeStart,
	winapi.EventSystemMinimizeEnd:    SystemMinimizeEnd,
	winapi.EventSystemMoveSizeStart:  SystemMoveSizeStart,
	winapi.EventSystemMoveSizeEnd:    SystemMoveSizeEnd,
}

type subscriber struct {
	id int
	fn func(Event)
}

// windowTrack is the minimal per-handle state the source keeps purely to
// derive synthetic events (§4.1); it is not the registry (C3) — C3 builds
// its own richer UserWindow from these same raw events.
type windowTrack struct {
	monitorID winhandle.MonitorId
	maximized bool
	fullscreen bool
}

// Source is C1: owns the dedicated message-pump thread and the
// copy-on-write subscriber list.
type Source struct {
	log  *slog.Logger
	skip *skipList

	subs   atomic.Pointer[[]subscriber]
	nextID int
	subMu  sync.Mutex

	quit chan struct{}
	done chan struct{}

	trackMu sync.Mutex
	track   map[winhandle.WindowHandle]*windowTrack

	// MonitorOf resolves a handle's current monitor id; supplied by the
	// caller (internal/monitorid) so this package stays decoupled from
	// monitor-id derivation policy.
	MonitorOf func(winhandle.WindowHandle) (winhandle.MonitorId, bool)
}

// New constructs a Source. Call Start to begin pumping.
func New(log *slog.Logger) *Source {
	s := &Source{
		log:   log,
		skip:  newSkipList(),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		track: make(map[winhandle.WindowHandle]*windowTrack),
	}
	empty := []subscriber{}
	s.subs.Store(&empty)
	return s
}

// Subscribe registers fn for every published event and returns an
// unsubscribe function. Subscription is intended to happen synchronously
// during startup (§4.1); the copy-on-write swap makes it safe at any time.
func (s *Source) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++

	old := *s.subs.Load()
	updated := make([]subscriber, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, subscriber{id: id, fn: fn})
	s.subs.Store(&updated)

	return func() { s.unsubscribe(id) }
}

func (s *Source) unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	old := *s.subs.Load()
	updated := make([]subscriber, 0, len(old))
	for _, sub := range old {
		if sub.id != id {
			updated = append(updated, sub)
		}
	}
	s.subs.Store(&updated)
}

// RequestSkip implements the publisher-side half of the §4.1 skip
// affordance: "the next matching event for this handle is self-inflicted".
func (s *Source) RequestSkip(kind Kind, handle winhandle.WindowHandle) {
	s.skip.request(kind, handle)
}

func (s *Source) publish(e Event) {
	if s.skip.consume(e.Kind, e.Handle) {
		return
	}
	for _, sub := range *s.subs.Load() {
		sub.fn(e)
	}
}

// Start installs the WinEvent hook and runs the message pump on a
// dedicated, locked OS thread until Stop is called. A hook-install failure
// is fatal per §7.5 and is returned to the caller (the orchestrator exits
// the process).
func (s *Source) Start() error {
	errCh := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(s.done)

		err := winapi.RunMessagePump(eventMin, eventMax, s.onRaw, s.onSys, s.quit)
		errCh <- err
	}()
	// RunMessagePump blocks until the hook is installed or fails before
	// the message loop starts, so a synchronous install failure surfaces
	// promptly; a nil send after Stop() is the normal shutdown path.
	select {
	case err := <-errCh:
		return err
	case <-s.quit:
		return nil
	}
}

// Stop terminates the message pump and joins the pump goroutine.
func (s *Source) Stop() {
	close(s.quit)
	<-s.done
}

// onSys translates a broadcast system message from the hidden window
// (pkg/winapi's WM_DISPLAYCHANGE/WM_POWERBROADCAST/WM_SETTINGCHANGE) into
// the normalised Kinds that raw WinEvent hook codes can never produce —
// these have no owning window, so they publish with the zero handle.
func (s *Source) onSys(sys winapi.SysEvent) {
	switch sys.Msg {
	case winapi.WMDisplayChange:
		s.publish(Event{Kind: DisplayChanged, Handle: winhandle.Zero})
	case winapi.WMPowerBroadcast:
		switch sys.WParam {
		case winapi.PBTAPMSuspend:
			s.publish(Event{Kind: SessionSuspend, Handle: winhandle.Zero})
		case winapi.PBTAPMResumeSuspend, winapi.PBTAPMResumeAutomatic:
			s.publish(Event{Kind: SessionResume, Handle: winhandle.Zero})
		}
	case winapi.WMSettingChange:
		switch sys.Setting {
		case "ImmersiveColorSet":
			s.publish(Event{Kind: ColorSchemeChanged, Handle: winhandle.Zero})
		case "WindowMetrics":
			s.publish(Event{Kind: TextScaleChanged, Handle: winhandle.Zero})
		}
	}
}

func (s *Source) onRaw(raw winapi.RawEvent) {
	kind, ok := rawToKind[raw.EventID]
	if !ok {
		return
	}
	handle := winhandle.FromNative(raw.Hwnd)

	s.deriveSynthetic(kind, handle)
	s.publish(Event{Kind: kind, Handle: handle})
}

// deriveSynthetic emits the Synthetic* events defined in §4.1 ahead of the
// raw event that triggered them, using only a rect comparison against the
// window's current monitor — no additional hook subscriptions needed.
func (s *Source) deriveSynthetic(kind Kind, handle winhandle.WindowHandle) {
	if kind != ObjectLocationChange && kind != SystemForeground {
		return
	}

	h := handle.Native()
	r, err := winapi.GetRect(h)
	if err != nil {
		return
	}
	mon, ok := winapi.FromWindow(h)
	if !ok {
		return
	}

	s.trackMu.Lock()
	t, exists := s.track[handle]
	if !exists {
		t = &windowTrack{}
		s.track[handle] = t
	}

	isMaximized := r.Equal(mon.WorkRect)
	isFullscreen := r.Equal(mon.Rect)

	if isMaximized && !t.maximized {
		s.publish(Event{Kind: SyntheticMaximizeStart, Handle: handle})
	} else if !isMaximized && t.maximized {
		s.publish(Event{Kind: SyntheticMaximizeEnd, Handle: handle})
	}
	if isFullscreen && !t.fullscreen {
		s.publish(Event{Kind: SyntheticFullscreenStart, Handle: handle})
	} else if !isFullscreen && t.fullscreen {
		s.publish(Event{Kind: SyntheticFullscreenEnd, Handle: handle})
	}
	t.maximized = isMaximized
	t.fullscreen = isFullscreen

	if s.MonitorOf != nil {
		if newID, ok := s.MonitorOf(handle); ok && t.monitorID != "" && newID != t.monitorID {
			s.publish(Event{Kind: SyntheticMonitorChanged, Handle: handle})
		} else if ok {
			t.monitorID = newID
		}
	} else {
		t.monitorID = winhandle.MonitorId(mon.DeviceName)
	}

	s.trackMu.Unlock()

	if kind == SystemForeground {
		s.publish(Event{Kind: SyntheticForegroundLocationChange, Handle: handle})
	}
}
