// Package wallpaper implements C8, the Wallpaper Rotator: a per-collection
// rotation index advanced on interval elapse, manual next/prev, or
// randomised pick, resolved per (monitor, workspace) through the §4.8
// priority chain. Grounded on
// original_source/src/background/virtual_desktops/wallpapers.rs's
// WorkspaceWallpapersManager — the collection-index map and
// increment-on-direction logic are a direct port; its tokio
// select!-over-mpsc rotation loop is reworked into the cron/v3 scheduling
// idiom internal/registry already established for interval-driven work,
// since a bare channel+select has no natural "pause/resume" or "change
// interval" operation the way a cron entry does.
package wallpaper

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/robfig/cron/v3"

	"seelencore/internal/settings"
	"seelencore/internal/winhandle"
)

// ChangeKind distinguishes why the active wallpaper set changed.
type ChangeKind int

const (
	Interval ChangeKind = iota
	Manual
)

// Event is published whenever rotation advances any collection's index.
type Event struct {
	Kind ChangeKind
}

// Manager tracks one rotation index per wallpaper collection and drives
// the interval tick.
type Manager struct {
	mu      sync.Mutex
	indices map[string]int

	rotate          *cron.Cron
	entry           cron.EntryID
	entryScheduled  bool
	intervalSeconds int

	subMu     sync.Mutex
	subs      map[int]func(Event)
	nextSubID int
}

// New constructs a Manager. Call Start to begin the interval tick.
func New() *Manager {
	return &Manager{
		indices: make(map[string]int),
		rotate:  cron.New(),
		subs:    make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every rotation Event.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(ev Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Start begins the cron-driven interval tick using the current settings
// snapshot's rotate interval, and starts the scheduler goroutine.
func (m *Manager) Start() {
	m.rotate.Start()
	m.rescheduleLocked(settings.Current().WallpaperRotateInterval)
}

// Stop halts the scheduler.
func (m *Manager) Stop() {
	ctx := m.rotate.Stop()
	<-ctx.Done()
}

// OnSettingsChanged re-reads the rotate interval and reschedules the cron
// entry if it changed (§4.8: "Advances on... interval elapse (configured
// seconds)").
func (m *Manager) OnSettingsChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rescheduleLocked(settings.Current().WallpaperRotateInterval)
}

func (m *Manager) rescheduleLocked(intervalSeconds int) {
	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}
	if m.entryScheduled && intervalSeconds == m.intervalSeconds {
		return
	}
	if m.entryScheduled {
		m.rotate.Remove(m.entry)
	}
	m.intervalSeconds = intervalSeconds
	id, err := m.rotate.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), m.onIntervalTick)
	if err == nil {
		m.entry = id
		m.entryScheduled = true
	}
}

func (m *Manager) onIntervalTick() {
	m.advanceActiveCollections(1)
	m.notify(Event{Kind: Interval})
}

// Next advances every currently-referenced collection's index forward one
// step (§4.8 manual next).
func (m *Manager) Next() {
	m.advanceActiveCollections(1)
	m.notify(Event{Kind: Manual})
}

// Previous steps every currently-referenced collection's index back one
// step (§4.8 manual prev).
func (m *Manager) Previous() {
	m.advanceActiveCollections(-1)
	m.notify(Event{Kind: Manual})
}

// advanceActiveCollections increments (direction==1) or decrements
// (direction==-1) the index of every collection referenced anywhere in the
// current settings (global default, any monitor default, any workspace
// override), mirroring update_all_wallpapers's active-collection scan.
func (m *Manager) advanceActiveCollections(direction int) {
	snap := settings.Current()
	for id := range activeCollectionIDs(snap) {
		m.advanceCollection(snap, id, direction)
	}
}

func activeCollectionIDs(snap *settings.Snapshot) map[string]struct{} {
	ids := make(map[string]struct{})
	if snap == nil {
		return ids
	}
	if snap.WallpaperGlobalDefault != "" {
		ids[snap.WallpaperGlobalDefault] = struct{}{}
	}
	for _, mon := range snap.Monitors {
		if mon.WallpaperCollectionID != "" {
			ids[mon.WallpaperCollectionID] = struct{}{}
		}
		for _, ws := range mon.Workspaces {
			if ws.WallpaperCollectionID != "" {
				ids[ws.WallpaperCollectionID] = struct{}{}
			}
		}
	}
	return ids
}

func (m *Manager) advanceCollection(snap *settings.Snapshot, collectionID string, direction int) {
	col, ok := findCollection(snap, collectionID)
	if !ok || len(col.Items) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(col.Items)
	current := m.indices[collectionID]

	// Randomise only makes sense with at least 3 items, else fall back to
	// sequential (§4.8: "requires len >= 3, else falls back to sequential").
	if col.Randomise && n >= 3 {
		next := current
		for next == current {
			next = rand.Intn(n)
		}
		m.indices[collectionID] = next
		return
	}

	if direction >= 0 {
		m.indices[collectionID] = (current + 1) % n
	} else {
		m.indices[collectionID] = (current - 1 + n) % n
	}
}

func findCollection(snap *settings.Snapshot, id string) (settings.WallpaperCollection, bool) {
	if snap == nil {
		return settings.WallpaperCollection{}, false
	}
	for _, c := range snap.WallpaperCollections {
		if c.ID == id {
			return c, true
		}
	}
	return settings.WallpaperCollection{}, false
}

// CurrentWallpaper resolves the active wallpaper id for (monitor,
// workspace) per §4.8's priority chain: a literal per-workspace pin wins
// outright (bypassing rotation entirely); otherwise the resolved
// collection's item at the tracked index is used.
func (m *Manager) CurrentWallpaper(monitorID winhandle.MonitorId, workspaceID winhandle.WorkspaceId) (string, bool) {
	snap := settings.Current()

	if pinned, ok := workspacePin(snap, monitorID, workspaceID); ok {
		return pinned, true
	}

	collectionID, ok := resolveCollectionID(snap, monitorID, workspaceID)
	if !ok {
		return "", false
	}
	col, ok := findCollection(snap, collectionID)
	if !ok || len(col.Items) == 0 {
		return "", false
	}

	m.mu.Lock()
	index := m.indices[collectionID] % len(col.Items)
	m.mu.Unlock()

	return col.Items[index], true
}

func workspacePin(snap *settings.Snapshot, monitorID winhandle.MonitorId, workspaceID winhandle.WorkspaceId) (string, bool) {
	mon, ws, ok := findMonitorWorkspace(snap, monitorID, workspaceID)
	if !ok {
		return "", false
	}
	_ = mon
	if ws.WallpaperID != "" {
		return ws.WallpaperID, true
	}
	return "", false
}

// resolveCollectionID implements the §4.8 priority chain: workspace-override
// -> monitor-default -> global-default.
func resolveCollectionID(snap *settings.Snapshot, monitorID winhandle.MonitorId, workspaceID winhandle.WorkspaceId) (string, bool) {
	mon, ws, ok := findMonitorWorkspace(snap, monitorID, workspaceID)
	if ok {
		if ws.WallpaperCollectionID != "" {
			return ws.WallpaperCollectionID, true
		}
		if mon.WallpaperCollectionID != "" {
			return mon.WallpaperCollectionID, true
		}
	}
	if snap != nil && snap.WallpaperGlobalDefault != "" {
		return snap.WallpaperGlobalDefault, true
	}
	return "", false
}

// findMonitorWorkspace matches persisted workspace defs by Name rather than
// WorkspaceId: the id is a fresh UUID minted per session (§3), while Name
// is the stable label the orchestrator seeds C4's workspaces from on
// startup, so it's the only identifier wallpaper overrides can reference
// across restarts.
func findMonitorWorkspace(snap *settings.Snapshot, monitorID winhandle.MonitorId, workspaceName winhandle.WorkspaceId) (settings.MonitorSettings, settings.MonitorWorkspaceDef, bool) {
	if snap == nil {
		return settings.MonitorSettings{}, settings.MonitorWorkspaceDef{}, false
	}
	for _, mon := range snap.Monitors {
		if mon.MonitorID != string(monitorID) {
			continue
		}
		for _, ws := range mon.Workspaces {
			if ws.Name == string(workspaceName) {
				return mon, ws, true
			}
		}
		return mon, settings.MonitorWorkspaceDef{}, true
	}
	return settings.MonitorSettings{}, settings.MonitorWorkspaceDef{}, false
}
