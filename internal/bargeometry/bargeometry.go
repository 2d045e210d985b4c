// Package bargeometry implements C7, the Bar Geometry Engine: per-monitor
// toolbar/dock/tiling rect computation, app-bar registration, and dock
// overlap/fullscreen-hide detection (§4.7). Grounded on the DPI conversion
// and multi-monitor work-area resolution idiom in
// internal/services/floatingball/service.go's workAreaLocked/dipToPhysical
// helpers, reworked from that service's single always-on-top ball window
// into a pure per-monitor geometry table plus an OS app-bar registration
// side effect.
package bargeometry

import (
	"log/slog"
	"sync"

	"seelencore/internal/eventsource"
	"seelencore/internal/settings"
	"seelencore/internal/winhandle"
	"seelencore/pkg/rect"
	"seelencore/pkg/winapi"
)

// desktopClasses are the Win32 desktop/wallpaper host window classes that
// never count as "overlapping" a dock (§4.7: "window is not desktop").
var desktopClasses = map[string]bool{
	"Progman": true,
	"WorkerW": true,
}

// nativePopupClasses are native shell surfaces that should never trigger
// overlap detection — the real taskbar, tray flyouts, and XAML popup
// hosts Windows itself manages.
var nativePopupClasses = map[string]bool{
	"Shell_TrayWnd":                true,
	"Shell_SecondaryTrayWnd":       true,
	"Windows.UI.Core.CoreWindow":   true,
	"XamlExplorerHostIslandWindow": true,
}

// seelenOverlayPrefix marks the core's own widget surface classes so they
// never self-trigger overlap detection against the dock they belong to.
const seelenOverlayPrefix = "SeelenUI::"

// MonitorGeometry is the three derived rects for one monitor (§4.7).
type MonitorGeometry struct {
	Bar    rect.Rect
	Dock   rect.Rect
	Tiling rect.Rect
}

type monitorState struct {
	info      winapi.MonitorInfo
	geometry  MonitorGeometry
	barHandle  winhandle.WindowHandle
	dockHandle winhandle.WindowHandle
	barAppBarRegistered  bool
	dockAppBarRegistered bool
	overlappedBy     winhandle.WindowHandle
	hasOverlap       bool
	fullscreenForced bool
}

// ChangeKind distinguishes the reasons Engine notifies a subscriber.
type ChangeKind int

const (
	// GeometryChanged fires after RegisterMonitor or Recompute.
	GeometryChanged ChangeKind = iota
	// DockOverlapChanged fires when the dock's overlapped_by/hidden state
	// flips (§4.7 overlap detection).
	DockOverlapChanged
)

// Event is delivered to Engine subscribers.
type Event struct {
	Kind      ChangeKind
	MonitorID winhandle.MonitorId
}

// Engine owns per-monitor geometry and dock overlap state.
type Engine struct {
	log *slog.Logger

	mu       sync.Mutex
	monitors map[winhandle.MonitorId]*monitorState
	byNative map[winapi.MonitorHandle]winhandle.MonitorId

	source *eventsource.Source

	subMu     sync.Mutex
	subs      map[int]func(Event)
	nextSubID int
}

// New constructs an Engine. source may be nil in tests that never call Start.
func New(log *slog.Logger, source *eventsource.Source) *Engine {
	return &Engine{
		log:      log,
		monitors: make(map[winhandle.MonitorId]*monitorState),
		byNative: make(map[winapi.MonitorHandle]winhandle.MonitorId),
		source:   source,
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every Event the engine publishes.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) notify(ev Event) {
	e.subMu.Lock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Start subscribes to the overlap-detection event kinds (§4.7) and returns
// a stop function.
func (e *Engine) Start() (stop func()) {
	if e.source == nil {
		return func() {}
	}
	return e.source.Subscribe(e.onEvent)
}

func (e *Engine) onEvent(ev eventsource.Event) {
	switch ev.Kind {
	case eventsource.SystemForeground, eventsource.ObjectFocus, eventsource.ObjectLocationChange:
		e.checkOverlap(ev.Handle)
	}
}

// RegisterMonitor adds or replaces the monitor identified by id, recomputes
// its geometry, and publishes GeometryChanged.
func (e *Engine) RegisterMonitor(id winhandle.MonitorId, info winapi.MonitorInfo) {
	e.mu.Lock()
	st, ok := e.monitors[id]
	if !ok {
		st = &monitorState{}
		e.monitors[id] = st
	}
	st.info = info
	st.geometry = computeGeometry(info, settings.Current())
	e.byNative[info.Handle] = id
	e.mu.Unlock()

	e.notify(Event{Kind: GeometryChanged, MonitorID: id})
}

// UnregisterMonitor drops a monitor (hot-unplug) and releases any app-bar
// registrations it held.
func (e *Engine) UnregisterMonitor(id winhandle.MonitorId) {
	e.mu.Lock()
	st, ok := e.monitors[id]
	if ok {
		if st.barAppBarRegistered {
			winapi.UnregisterAppBar(st.barHandle.Native())
		}
		if st.dockAppBarRegistered {
			winapi.UnregisterAppBar(st.dockHandle.Native())
		}
		delete(e.byNative, st.info.Handle)
		delete(e.monitors, id)
	}
	e.mu.Unlock()
}

// Geometry returns the last-computed geometry for id.
func (e *Engine) Geometry(id winhandle.MonitorId) (MonitorGeometry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.monitors[id]
	if !ok {
		return MonitorGeometry{}, false
	}
	return st.geometry, true
}

// Recompute re-derives id's geometry from the current settings snapshot and
// its last-known monitor metrics (called on settings change or
// TextScaleChanged). SetWidgetHandles must have been called first if the
// caller wants app-bar registration re-evaluated in the same pass.
func (e *Engine) Recompute(id winhandle.MonitorId) {
	e.mu.Lock()
	st, ok := e.monitors[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	st.geometry = computeGeometry(st.info, settings.Current())
	e.mu.Unlock()

	e.applyAppBarRegistration(id)
	e.notify(Event{Kind: GeometryChanged, MonitorID: id})
}

// SetWidgetHandles records the live OS windows backing id's bar/dock UI
// surfaces, so the engine can (un)register them as app bars. Pass
// winhandle.Zero for a widget that is disabled.
func (e *Engine) SetWidgetHandles(id winhandle.MonitorId, bar, dock winhandle.WindowHandle) {
	e.mu.Lock()
	st, ok := e.monitors[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	st.barHandle = bar
	st.dockHandle = dock
	e.mu.Unlock()

	e.applyAppBarRegistration(id)
}

func (e *Engine) applyAppBarRegistration(id winhandle.MonitorId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.monitors[id]
	if !ok {
		return
	}
	snap := settings.Current()

	registerOrRelease(&st.barAppBarRegistered, st.barHandle, snap.Bar.HideMode, edgeFromPosition(snap.Bar.Position), st.geometry.Bar)
	registerOrRelease(&st.dockAppBarRegistered, st.dockHandle, snap.Dock.HideMode, edgeFromPosition(snap.Dock.Position), st.geometry.Dock)
}

// edgeFromPosition maps a settings.DockPosition to the Win32 ABE_* edge
// SHAppBarMessage expects.
func edgeFromPosition(p settings.DockPosition) winapi.AppBarEdge {
	switch p {
	case settings.PositionLeft:
		return winapi.EdgeLeft
	case settings.PositionRight:
		return winapi.EdgeRight
	case settings.PositionBottom:
		return winapi.EdgeBottom
	default:
		return winapi.EdgeTop
	}
}

func registerOrRelease(registered *bool, handle winhandle.WindowHandle, mode settings.HideMode, edge winapi.AppBarEdge, r rect.Rect) {
	if handle == winhandle.Zero {
		return
	}
	wantRegistered := mode == settings.HideNever
	switch {
	case wantRegistered && !*registered:
		*registered = winapi.RegisterAppBar(handle.Native(), edge, r)
	case !wantRegistered && *registered:
		winapi.UnregisterAppBar(handle.Native())
		*registered = false
	}
}

// computeGeometry derives bar_rect/dock_rect/tiling_rect for one monitor
// from the current settings (§4.7). The toolbar is placed first so it has
// priority over the dock when both sit on the same edge class.
func computeGeometry(info winapi.MonitorInfo, snap *settings.Snapshot) MonitorGeometry {
	scale := info.ScaleFactor
	if scale <= 0 {
		scale = 1
	}
	textScale := 1.0
	if snap != nil && snap.TextScale > 0 {
		textScale = snap.TextScale
	}
	factor := scale * textScale

	tiling := info.Rect
	var barRect, dockRect rect.Rect

	if snap != nil && snap.WidgetsEnabled["bar"] {
		barRect, tiling = placeEdgeBand(tiling, snap.Bar, factor)
	}
	if snap != nil && snap.WidgetsEnabled["dock"] {
		dockRect, tiling = placeEdgeBand(tiling, snap.Dock, factor)
	}

	return MonitorGeometry{Bar: barRect, Dock: dockRect, Tiling: tiling}
}

// placeEdgeBand carves a band of the configured thickness off avail's
// edge, returning the band rect and the remaining rect. The remainder only
// excludes the band when hide_mode != Always — an always-hidden band still
// has a computed rect (for the UI surface to animate from) but never
// claims tiling space.
func placeEdgeBand(avail rect.Rect, cfg settings.BarSettings, factor float64) (band, remaining rect.Rect) {
	thickness := int32(float64(cfg.Size) * factor)
	band = avail
	remaining = avail

	switch cfg.Position {
	case settings.PositionTop:
		band.Bottom = band.Top + thickness
		if cfg.HideMode != settings.HideAlways {
			remaining.Top = avail.Top + thickness
		}
	case settings.PositionBottom:
		band.Top = band.Bottom - thickness
		if cfg.HideMode != settings.HideAlways {
			remaining.Bottom = avail.Bottom - thickness
		}
	case settings.PositionLeft:
		band.Right = band.Left + thickness
		if cfg.HideMode != settings.HideAlways {
			remaining.Left = avail.Left + thickness
		}
	case settings.PositionRight:
		band.Left = band.Right - thickness
		if cfg.HideMode != settings.HideAlways {
			remaining.Right = avail.Right - thickness
		}
	}
	return band, remaining
}

// checkOverlap implements §4.7's overlap-detection rule for the monitor
// hosting handle's foreground window.
func (e *Engine) checkOverlap(handle winhandle.WindowHandle) {
	h := handle.Native()
	if !winapi.IsWindow(h) {
		return
	}
	mon, ok := winapi.FromWindow(h)
	if !ok {
		return
	}

	e.mu.Lock()
	id, ok := e.byNative[mon.Handle]
	if !ok {
		e.mu.Unlock()
		return
	}
	st := e.monitors[id]
	dock := st.geometry.Dock
	e.mu.Unlock()

	if dock.Width() <= 0 || dock.Height() <= 0 {
		return
	}

	winRect, err := winapi.GetRect(h)
	if err != nil {
		return
	}

	fullscreen := winRect.Equal(mon.Rect)
	class := winapi.ClassName(h)

	overlaps := winRect.Intersects(dock) &&
		!desktopClasses[class] &&
		!nativePopupClasses[class] &&
		!hasSeelenOverlayPrefix(class) &&
		!isBlacklisted(handle, dock)

	e.mu.Lock()
	st, ok = e.monitors[id]
	if !ok {
		e.mu.Unlock()
		return
	}

	wasOverlapped := st.hasOverlap
	wasForced := st.fullscreenForced
	st.fullscreenForced = fullscreen

	if overlaps || fullscreen {
		changed := !st.hasOverlap || st.overlappedBy != handle
		st.hasOverlap = true
		st.overlappedBy = handle
		e.mu.Unlock()
		if changed || (fullscreen && !wasForced) {
			e.notify(Event{Kind: DockOverlapChanged, MonitorID: id})
		}
		return
	}

	st.hasOverlap = false
	st.overlappedBy = winhandle.Zero
	e.mu.Unlock()
	if wasOverlapped || wasForced {
		e.notify(Event{Kind: DockOverlapChanged, MonitorID: id})
	}
}

// IsDockOverlapped reports the dock's current overlap/fullscreen-hidden
// state for id and the window responsible, if any.
func (e *Engine) IsDockOverlapped(id winhandle.MonitorId) (handle winhandle.WindowHandle, hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.monitors[id]
	if !ok {
		return winhandle.Zero, false
	}
	return st.overlappedBy, st.hasOverlap || st.fullscreenForced
}

func hasSeelenOverlayPrefix(class string) bool {
	return len(class) >= len(seelenOverlayPrefix) && class[:len(seelenOverlayPrefix)] == seelenOverlayPrefix
}

func isBlacklisted(handle winhandle.WindowHandle, _ rect.Rect) bool {
	snap := settings.Current()
	if snap == nil {
		return false
	}
	exe := exeNameOf(handle)
	if exe == "" {
		return false
	}
	for _, denied := range snap.Dock.OverlapExeDeny {
		if denied == exe {
			return true
		}
	}
	return false
}

func exeNameOf(handle winhandle.WindowHandle) string {
	h := handle.Native()
	pid := winapi.ProcessID(h)
	proc, ok := winapi.OpenProcessLimited(pid)
	if !ok {
		return ""
	}
	defer winapi.CloseProcessHandle(proc)
	name, err := winapi.ImageBaseName(proc)
	if err != nil {
		return ""
	}
	return name
}
