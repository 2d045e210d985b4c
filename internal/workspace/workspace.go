// Package workspace implements C4, the Virtual Workspace Manager: a
// per-monitor set of named window groupings, exactly one of which is active
// at a time, with pinned windows excluded from hide/show transitions.
// Grounded on the teacher's attach/hide/standalone state-machine idiom
// (internal/services/windows/snap_service.go): a mutex-guarded struct, a
// small enum of states, and a "touch" helper that stamps every mutation.
package workspace

import (
	"sync"

	"github.com/google/uuid"

	"seelencore/internal/errs"
	"seelencore/internal/eventsource"
	"seelencore/internal/winhandle"
)

// Workspace is one named, orderable bucket of windows on a single monitor.
type Workspace struct {
	ID      winhandle.WorkspaceId
	Name    string
	Windows []winhandle.WindowHandle
}

func (w *Workspace) contains(h winhandle.WindowHandle) bool {
	for _, e := range w.Windows {
		if e == h {
			return true
		}
	}
	return false
}

func (w *Workspace) remove(h winhandle.WindowHandle) {
	for i, e := range w.Windows {
		if e == h {
			w.Windows = append(w.Windows[:i], w.Windows[i+1:]...)
			return
		}
	}
}

// monitorState is the per-monitor slice of workspaces plus which one is
// currently shown and the set of windows pinned (visible across all of
// this monitor's workspaces, per §4.4).
type monitorState struct {
	workspaces []*Workspace
	activeID   winhandle.WorkspaceId
	pinned     map[winhandle.WindowHandle]bool
}

func (m *monitorState) find(id winhandle.WorkspaceId) (*Workspace, int) {
	for i, w := range m.workspaces {
		if w.ID == id {
			return w, i
		}
	}
	return nil, -1
}

func (m *monitorState) active() *Workspace {
	ws, _ := m.find(m.activeID)
	return ws
}

// HideShow is the collaborator that actually moves windows on/off screen
// when a workspace is (de)activated — wired to C1's skip protocol and C6's
// animator by the orchestrator, kept as an interface here so this package
// stays free of winapi/animation concerns.
type HideShow interface {
	Hide(h winhandle.WindowHandle)
	Show(h winhandle.WindowHandle)
	// Focus brings h to the foreground. Called once per SwitchTo, on the
	// last-restored window, to satisfy §4.4 step (f) — Show itself must
	// not steal focus, since every other restored window needs to land
	// behind it in z-order first.
	Focus(h winhandle.WindowHandle)
}

// ChangeKind identifies why a Manager Event fired.
type ChangeKind int

const (
	Activated ChangeKind = iota
	Created
	Destroyed
	WindowMoved
	PinChanged
)

// Event is published on every workspace-manager mutation (§4.4, feeds
// C10's WindowsChanged/VirtualDesktopsChanged bridge to the UI).
type Event struct {
	Kind        ChangeKind
	MonitorID   string
	WorkspaceID winhandle.WorkspaceId
}

// Manager owns every monitor's workspace set. One big mutex guards all
// monitors' state, mirroring the teacher's single-lock SnapService: the
// operations are infrequent and cross-monitor moves need a consistent view
// anyway.
type Manager struct {
	mu       sync.Mutex
	monitors map[string]*monitorState
	hideShow HideShow
	source   *eventsource.Source

	subMu     sync.Mutex
	subs      map[int]func(Event)
	nextSubID int
}

// New constructs an empty Manager. Monitors are registered lazily via
// EnsureMonitor as C10 discovers them.
func New(hideShow HideShow, source *eventsource.Source) *Manager {
	return &Manager{
		monitors: make(map[string]*monitorState),
		hideShow: hideShow,
		source:   source,
		subs:     make(map[int]func(Event)),
	}
}

func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(e Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// EnsureMonitor registers monitorID with an initial workspace named
// defaultName if it isn't already known, returning the id of its active
// workspace either way.
func (m *Manager) EnsureMonitor(monitorID, defaultName string) winhandle.WorkspaceId {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ms, ok := m.monitors[monitorID]; ok {
		return ms.activeID
	}
	id := winhandle.WorkspaceId(uuid.NewString())
	ws := &Workspace{ID: id, Name: defaultName}
	m.monitors[monitorID] = &monitorState{
		workspaces: []*Workspace{ws},
		activeID:   id,
		pinned:     make(map[winhandle.WindowHandle]bool),
	}
	return id
}

// CreateWorkspace adds a new, initially inactive workspace to monitorID.
func (m *Manager) CreateWorkspace(monitorID, name string) (winhandle.WorkspaceId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.monitors[monitorID]
	if !ok {
		return "", errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", monitorID)
	}
	id := winhandle.WorkspaceId(uuid.NewString())
	ms.workspaces = append(ms.workspaces, &Workspace{ID: id, Name: name})

	m.notifyLocked(Event{Kind: Created, MonitorID: monitorID, WorkspaceID: id})
	return id, nil
}

// notifyLocked fires notify without releasing m.mu first; callers that
// already hold it must use this instead of Subscribe's locking notify.
func (m *Manager) notifyLocked(e Event) {
	go m.notify(e)
}

// SwitchTo activates target on monitorID: windows exclusive to the
// previously active workspace are hidden, windows exclusive to target are
// shown, and pinned windows are left untouched throughout (§4.4).
func (m *Manager) SwitchTo(monitorID string, target winhandle.WorkspaceId) error {
	m.mu.Lock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", monitorID)
	}
	if ms.activeID == target {
		m.mu.Unlock()
		return nil
	}
	newWs, idx := ms.find(target)
	if idx < 0 {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_workspace: %s", target)
	}
	oldWs := ms.active()

	var toHide, toShow []winhandle.WindowHandle
	if oldWs != nil {
		for _, h := range oldWs.Windows {
			if !ms.pinned[h] && !newWs.contains(h) {
				toHide = append(toHide, h)
			}
		}
	}
	for _, h := range newWs.Windows {
		toShow = append(toShow, h)
	}
	ms.activeID = target
	m.mu.Unlock()

	for _, h := range toHide {
		m.skipAndHide(h)
	}
	for _, h := range toShow {
		m.skipAndShow(h)
	}
	if len(toShow) > 0 {
		// §4.4 step (f): focus lands on the last restored window, in
		// z-order, once every window due to appear on target is visible.
		m.hideShow.Focus(toShow[len(toShow)-1])
	}

	m.notify(Event{Kind: Activated, MonitorID: monitorID, WorkspaceID: target})
	return nil
}

// SendTo moves handle out of its current workspace (if tracked) into
// target on monitorID, hiding it if target is not the active workspace.
func (m *Manager) SendTo(monitorID string, handle winhandle.WindowHandle, target winhandle.WorkspaceId) error {
	m.mu.Lock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", monitorID)
	}
	dst, idx := ms.find(target)
	if idx < 0 {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_workspace: %s", target)
	}
	for _, ws := range ms.workspaces {
		if ws.ID != target {
			ws.remove(handle)
		}
	}
	if !dst.contains(handle) {
		dst.Windows = append(dst.Windows, handle)
	}
	isActive := ms.activeID == target
	pinned := ms.pinned[handle]
	m.mu.Unlock()

	if !isActive && !pinned {
		m.skipAndHide(handle)
	} else {
		m.skipAndShow(handle)
	}

	m.notify(Event{Kind: WindowMoved, MonitorID: monitorID, WorkspaceID: target})
	return nil
}

// Pin marks handle as visible regardless of which workspace is active on
// monitorID (§4.4's pinned-window carve-out).
func (m *Manager) Pin(monitorID string, handle winhandle.WindowHandle) {
	m.mu.Lock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return
	}
	ms.pinned[handle] = true
	m.mu.Unlock()

	m.skipAndShow(handle)
	m.notify(Event{Kind: PinChanged, MonitorID: monitorID})
}

// Unpin clears handle's pin, hiding it immediately if its owning workspace
// is not the currently active one.
func (m *Manager) Unpin(monitorID string, handle winhandle.WindowHandle) {
	m.mu.Lock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(ms.pinned, handle)
	var owner *Workspace
	for _, ws := range ms.workspaces {
		if ws.contains(handle) {
			owner = ws
			break
		}
	}
	shouldHide := owner != nil && owner.ID != ms.activeID
	m.mu.Unlock()

	if shouldHide {
		m.skipAndHide(handle)
	}
	m.notify(Event{Kind: PinChanged, MonitorID: monitorID})
}

// ActiveWorkspace reports monitorID's currently active workspace.
func (m *Manager) ActiveWorkspace(monitorID string) (winhandle.WorkspaceId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		return "", false
	}
	return ms.activeID, true
}

// Windows returns a snapshot of the window handles currently placed in
// target on monitorID, in no particular order.
func (m *Manager) Windows(monitorID string, target winhandle.WorkspaceId) []winhandle.WindowHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		return nil
	}
	ws, idx := ms.find(target)
	if idx < 0 {
		return nil
	}
	return append([]winhandle.WindowHandle(nil), ws.Windows...)
}

// Workspaces returns a snapshot of every workspace id currently defined on
// monitorID, in creation order.
func (m *Manager) Workspaces(monitorID string) []winhandle.WorkspaceId {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		return nil
	}
	out := make([]winhandle.WorkspaceId, 0, len(ms.workspaces))
	for _, ws := range ms.workspaces {
		out = append(out, ws.ID)
	}
	return out
}

// WorkspaceOf reports which workspace on monitorID currently owns handle.
func (m *Manager) WorkspaceOf(monitorID string, handle winhandle.WindowHandle) (winhandle.WorkspaceId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		return "", false
	}
	for _, ws := range ms.workspaces {
		if ws.contains(handle) {
			return ws.ID, true
		}
	}
	return "", false
}

// DestroyWorkspace removes target from monitorID. Pinned windows in target
// are not redistributed: they leave with target's window list and stay
// pinned (they remain visible regardless); non-pinned windows are redistributed to the monitor's first remaining
// workspace, which acts as the fallback.
func (m *Manager) DestroyWorkspace(monitorID string, target winhandle.WorkspaceId) error {
	m.mu.Lock()
	ms, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", monitorID)
	}
	if len(ms.workspaces) <= 1 {
		m.mu.Unlock()
		return errs.New(errs.PolicyFailure, "workspace.cannot_destroy_last")
	}
	doomed, idx := ms.find(target)
	if idx < 0 {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_workspace: %s", target)
	}

	var fallback *Workspace
	for _, ws := range ms.workspaces {
		if ws.ID != target {
			fallback = ws
			break
		}
	}
	var toShow []winhandle.WindowHandle
	for _, h := range doomed.Windows {
		if ms.pinned[h] {
			continue
		}
		fallback.Windows = append(fallback.Windows, h)
		toShow = append(toShow, h)
	}

	wasActive := ms.activeID == target
	ms.workspaces = append(ms.workspaces[:idx], ms.workspaces[idx+1:]...)
	if wasActive {
		ms.activeID = fallback.ID
	}
	m.mu.Unlock()

	if wasActive {
		for _, h := range toShow {
			m.skipAndShow(h)
		}
	}

	m.notify(Event{Kind: Destroyed, MonitorID: monitorID, WorkspaceID: target})
	return nil
}

// MoveToMonitor relocates handle from its current workspace on fromMonitorID
// (if any) to target on toMonitorID, hiding or showing it according to
// target's activation state exactly as SendTo does. Used when a window's
// owning monitor changes — a display is unplugged, or the window is dragged
// across a monitor boundary (§4.4, §4.10 SyntheticMonitorChanged handling).
func (m *Manager) MoveToMonitor(fromMonitorID string, handle winhandle.WindowHandle, toMonitorID string, target winhandle.WorkspaceId) error {
	m.mu.Lock()
	if from, ok := m.monitors[fromMonitorID]; ok {
		for _, ws := range from.workspaces {
			ws.remove(handle)
		}
		delete(from.pinned, handle)
	}

	to, ok := m.monitors[toMonitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", toMonitorID)
	}
	dst, idx := to.find(target)
	if idx < 0 {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_workspace: %s", target)
	}
	if !dst.contains(handle) {
		dst.Windows = append(dst.Windows, handle)
	}
	isActive := to.activeID == target
	m.mu.Unlock()

	if isActive {
		m.skipAndShow(handle)
	} else {
		m.skipAndHide(handle)
	}

	m.notify(Event{Kind: WindowMoved, MonitorID: toMonitorID, WorkspaceID: target})
	return nil
}

// RemoveMonitor retires monitorID: every window tracked across its
// workspaces is migrated onto fallbackMonitorID's active workspace (shown,
// since it is joining the active set), and the monitor's own state is
// discarded. Used when a display is unplugged (§4.10 "On monitor add/remove").
func (m *Manager) RemoveMonitor(monitorID, fallbackMonitorID string) error {
	m.mu.Lock()
	doomed, ok := m.monitors[monitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", monitorID)
	}
	fallback, ok := m.monitors[fallbackMonitorID]
	if !ok {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.unknown_monitor: %s", fallbackMonitorID)
	}
	dst := fallback.active()
	if dst == nil {
		m.mu.Unlock()
		return errs.Newf(errs.InvariantViolation, "workspace.no_active_workspace: %s", fallbackMonitorID)
	}

	var migrated []winhandle.WindowHandle
	seen := make(map[winhandle.WindowHandle]bool)
	for _, ws := range doomed.workspaces {
		for _, h := range ws.Windows {
			if seen[h] {
				continue
			}
			seen[h] = true
			migrated = append(migrated, h)
			if !dst.contains(h) {
				dst.Windows = append(dst.Windows, h)
			}
		}
	}
	delete(m.monitors, monitorID)
	m.mu.Unlock()

	for _, h := range migrated {
		m.skipAndShow(h)
	}

	m.notify(Event{Kind: WindowMoved, MonitorID: fallbackMonitorID, WorkspaceID: dst.ID})
	return nil
}

// MonitorKnown reports whether monitorID is currently tracked, so callers
// can decide whether RemoveMonitor is needed at all.
func (m *Manager) MonitorKnown(monitorID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.monitors[monitorID]
	return ok
}

// skipAndHide and skipAndShow tell C1 to swallow the minimize/restore event
// this call is about to cause before performing it, so the hide/show never
// loops back through the registry as if the user had done it (§4.1/§4.4).
func (m *Manager) skipAndHide(h winhandle.WindowHandle) {
	if m.source != nil {
		m.source.RequestSkip(eventsource.SystemMinimizeStart, h)
	}
	m.hideShow.Hide(h)
}

func (m *Manager) skipAndShow(h winhandle.WindowHandle) {
	if m.source != nil {
		m.source.RequestSkip(eventsource.SystemMinimizeEnd, h)
	}
	m.hideShow.Show(h)
}
