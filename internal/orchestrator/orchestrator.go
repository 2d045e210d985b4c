// Package orchestrator implements C10, the Shell Orchestrator: the
// composition root that owns every other component's lifecycle, wires the
// cross-component event flow (§5's data-flow diagram), and routes hotkey
// commands and IPC requests into concrete actions. Grounded on the
// teacher's internal/bootstrap/app.go NewApp/mainWindowManager composition
// root — sequential registration of services into one struct, a single
// mutex-guarded "is this surface usable right now" gate, and a returned
// cleanup func rather than panicking on shutdown.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"seelencore/internal/bargeometry"
	"seelencore/internal/define"
	"seelencore/internal/device"
	"seelencore/internal/eventbus"
	"seelencore/internal/eventsource"
	"seelencore/internal/layout"
	"seelencore/internal/positioning"
	"seelencore/internal/registry"
	"seelencore/internal/settings"
	"seelencore/internal/shortcuts"
	"seelencore/internal/taskmanager"
	"seelencore/internal/wallpaper"
	"seelencore/internal/winhandle"
	"seelencore/internal/workspace"
	"seelencore/pkg/rect"
	"seelencore/pkg/winapi"
)

// WidgetFactory creates the per-monitor bar/dock webview surfaces. The
// orchestrator never constructs a wails application.App itself — main.go
// owns that and supplies this factory — so the package stays testable
// without a real webview runtime (mirrors floatingball/service.go's
// app.Window.NewWithOptions call, lifted one level so it can be faked).
type WidgetFactory interface {
	// CreateBar/CreateDock create (or return the existing) widget window
	// for monitorID and return its handle. Implementations are expected to
	// memoize: the orchestrator calls these once per monitor registration
	// and again only after a monitor is re-plugged.
	CreateBar(monitorID string, info winapi.MonitorInfo) (winhandle.WindowHandle, error)
	CreateDock(monitorID string, info winapi.MonitorInfo) (winhandle.WindowHandle, error)
	// DestroyWidgets tears down monitorID's bar/dock surfaces on unplug.
	DestroyWidgets(monitorID string)
}

// retileDebounce coalesces bursts of registry/workspace/geometry churn
// (drag-resize, a window opening three children in a row) into one
// ComputeRects+AnimateBatch pass per (monitor, workspace) pair.
const retileDebounce = 40 * time.Millisecond

// Core is C10: the shell orchestrator. The component fields are populated
// by New; Start fills in the stop/release hooks (stopWatch, releaseLock,
// stopSource, stopRegistry, stopBars). The struct itself needs no mutex,
// only the maps it owns (trees, monitors) do.
type Core struct {
	log *slog.Logger

	bus      *eventbus.Bus
	source   *eventsource.Source
	registry *registry.Registry
	wsMgr    *workspace.Manager
	bars     *bargeometry.Engine
	walls    *wallpaper.Manager
	shortcut *shortcuts.Dispatcher
	animator *positioning.Orchestrator
	tasks    *taskmanager.TaskManager
	widgets  WidgetFactory

	treesMu   sync.Mutex
	trees     map[treeKey]*layout.Tree
	lastRects map[treeKey]map[winhandle.WindowHandle]rect.Rect
	paused    map[treeKey]bool
	reserved  map[string]string // monitorID -> reservation side, see commands.go

	monMu    sync.Mutex
	monitors map[string]winapi.MonitorInfo

	// windowMonitor remembers the last monitor each tracked window was
	// resolved to, purely so SyntheticMonitorChanged (which names no "from"
	// monitor) can be turned into a workspace.Manager.MoveToMonitor call.
	winMonMu      sync.Mutex
	windowMonitor map[winhandle.WindowHandle]string

	settingsPath string
	stopWatch    func()
	releaseLock  func()

	stopSource   func()
	stopRegistry func()
	stopBars     func()

	restartRequested atomic.Bool
	quit             chan struct{}
}

// RestartRequested reports whether a misc_force_restart hotkey/command
// triggered the most recent Stop — main.go checks this after Start/Stop
// return to decide whether to re-exec instead of exiting.
func (c *Core) RestartRequested() bool {
	return c.restartRequested.Load()
}

type treeKey struct {
	monitor   string
	workspace winhandle.WorkspaceId
}

// Options configures New. SettingsPath is required; Widgets may be nil, in
// which case no bar or dock windows are created. Log defaults to
// slog.Default() when nil.
type Options struct {
	Log          *slog.Logger
	SettingsPath string
	Widgets      WidgetFactory
	// Emitter is typically application.App.Event from a wails app; nil is
	// fine for tests, since eventbus.Bus is nil-emitter-safe.
	Emitter eventbus.Emitter
}

// New assembles every component without starting anything — construction
// is cheap and side-effect-free so tests can build a Core and drive its
// handlers directly. Start performs the eight-step bring-up sequence.
func New(opts Options) *Core {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	source := eventsource.New(log)
	c := &Core{
		log:           log,
		bus:           eventbus.New(opts.Emitter),
		source:        source,
		bars:          bargeometry.New(log, source),
		walls:         wallpaper.New(),
		animator:      positioning.NewOrchestrator(),
		tasks:         taskmanager.Init(log),
		widgets:       opts.Widgets,
		trees:         make(map[treeKey]*layout.Tree),
		lastRects:     make(map[treeKey]map[winhandle.WindowHandle]rect.Rect),
		paused:        make(map[treeKey]bool),
		reserved:      make(map[string]string),
		monitors:      make(map[string]winapi.MonitorInfo),
		windowMonitor: make(map[winhandle.WindowHandle]string),
		settingsPath:  opts.SettingsPath,
		quit:          make(chan struct{}),
	}
	c.registry = registry.New(log, source)
	c.wsMgr = workspace.New(osHideShow{}, source)
	c.shortcut = shortcuts.New(log, c.dispatchCommand)
	return c
}

// Start runs the bring-up sequence: single-instance guard, load settings,
// start C1's message pump, start C3/C4, enumerate monitors and register
// them with C7, compute and animate the initial layout on every
// (monitor, workspace), subscribe to every component's event stream, and
// finally start the hotkey dispatcher. Returns once bring-up is complete;
// the OS event pump keeps running on its own goroutine until Stop.
func (c *Core) Start(ctx context.Context) error {
	sessionID, err := device.SessionID()
	if err != nil {
		return fmt.Errorf("orchestrator: resolve session id: %w", err)
	}
	mutexName := define.SingleInstanceUniqueID + "::" + sessionID
	held, release, err := winapi.AcquireSingleInstanceMutex(mutexName)
	if err != nil {
		return fmt.Errorf("orchestrator: acquire single-instance lock: %w", err)
	}
	if !held {
		return fmt.Errorf("orchestrator: another instance already holds %q", mutexName)
	}
	c.releaseLock = release

	if _, err := settings.Load(c.settingsPath); err != nil {
		c.log.Warn("orchestrator: settings load failed, continuing on defaults", "error", err)
	}
	if stop, err := settings.Watch(c.log, c.settingsPath, c.onSettingsReload); err != nil {
		c.log.Warn("orchestrator: settings watch failed, hot-reload disabled", "error", err)
	} else {
		c.stopWatch = stop
	}

	sourceErrCh := make(chan error, 1)
	go func() {
		if err := c.source.Start(); err != nil {
			sourceErrCh <- err
			c.log.Error("orchestrator: event source stopped", "error", err)
		}
	}()
	select {
	case err := <-sourceErrCh:
		c.releaseLock()
		return fmt.Errorf("orchestrator: start event source: %w", err)
	case <-time.After(50 * time.Millisecond):
		// The pump installs its hook synchronously before blocking on
		// GetMessageW; a short grace window is enough to catch an
		// immediate install failure without making every boot pay it.
	}
	c.stopSource = c.source.Stop

	stopRegistry, err := c.registry.Start(ctx)
	if err != nil {
		c.teardownPartial()
		return fmt.Errorf("orchestrator: start registry: %w", err)
	}
	c.stopRegistry = stopRegistry

	c.stopBars = c.bars.Start()
	c.walls.Start()

	c.registerMonitors()

	c.registry.Subscribe(c.onRegistryEvent)
	c.wsMgr.Subscribe(c.onWorkspaceEvent)
	c.bars.Subscribe(c.onBarGeometryEvent)
	c.walls.Subscribe(c.onWallpaperEvent)
	c.source.Subscribe(c.onSourceEvent)

	c.monMu.Lock()
	for monitorID := range c.monitors {
		if ws, ok := c.wsMgr.ActiveWorkspace(monitorID); ok {
			c.scheduleRetile(monitorID, ws)
		}
	}
	c.monMu.Unlock()

	c.shortcut.Start()

	return nil
}

// Stop reverses Start in roughly the opposite order, releasing the
// single-instance lock last so a crash mid-shutdown still leaves the lock
// held (preferring a stuck lock, which the user can see and kill, over a
// silent second instance).
func (c *Core) Stop() {
	close(c.quit)

	c.shortcut.Stop()
	c.walls.Stop()
	if c.stopBars != nil {
		c.stopBars()
	}
	if c.stopRegistry != nil {
		c.stopRegistry()
	}
	if c.stopSource != nil {
		c.stopSource()
	}
	if c.stopWatch != nil {
		c.stopWatch()
	}
	c.tasks.Stop()
	if c.releaseLock != nil {
		c.releaseLock()
	}
}

// teardownPartial unwinds whatever Start managed to bring up before a
// later step failed.
func (c *Core) teardownPartial() {
	if c.stopSource != nil {
		c.stopSource()
	}
	if c.stopWatch != nil {
		c.stopWatch()
	}
	if c.releaseLock != nil {
		c.releaseLock()
	}
}

// ensureTree returns key's layout tree, creating it with the default spec
// on first use. §4.5's tree-per-workspace rule means a workspace never
// inherits another workspace's tiling state, even on the same monitor.
func (c *Core) ensureTree(key treeKey) *layout.Tree {
	c.treesMu.Lock()
	defer c.treesMu.Unlock()
	t, ok := c.trees[key]
	if !ok {
		t = layout.NewTree(layout.DefaultSpec())
		c.trees[key] = t
	}
	return t
}

// scheduleRetile debounces a ComputeRects+AnimateBatch pass for one
// (monitor, workspace) pair onto taskmanager so rapid-fire churn collapses
// to a single trailing-edge recompute (§4.6).
func (c *Core) scheduleRetile(monitorID string, workspaceID winhandle.WorkspaceId) {
	key := treeKey{monitor: monitorID, workspace: workspaceID}
	taskKey := fmt.Sprintf("retile:%s:%s", monitorID, workspaceID)
	c.tasks.Debounce(taskKey, retileDebounce, func(_ context.Context, info *taskmanager.TaskInfo) {
		if info.IsCancelled() {
			return
		}
		c.retileNow(key)
	})
}

func (c *Core) retileNow(key treeKey) {
	geometry, ok := c.bars.Geometry(winhandle.MonitorId(key.monitor))
	if !ok {
		return
	}
	active, ok := c.wsMgr.ActiveWorkspace(key.monitor)
	if !ok || active != key.workspace {
		// Only the visible workspace on a monitor needs its windows moved;
		// a background workspace's tree still updates membership, it just
		// has nothing to animate until SwitchTo makes it active.
		return
	}

	c.treesMu.Lock()
	paused := c.paused[key]
	c.treesMu.Unlock()

	tree := c.ensureTree(key)
	targets := tree.ComputeRects(geometry.Tiling)

	c.treesMu.Lock()
	c.lastRects[key] = targets
	c.treesMu.Unlock()

	if len(targets) == 0 || paused {
		return
	}

	snap := settings.Current()
	duration := time.Duration(snap.AnimationDurationMs) * time.Millisecond
	easing, ok := positioning.EasingFromName(snap.AnimationEasing)
	if !ok {
		easing = positioning.EaseOut
	}
	if !snap.AnimationsEnabled {
		duration = 0
	}

	rects := make([]eventbus.HandleRectJSON, 0, len(targets))
	for h, r := range targets {
		rects = append(rects, handleRectJSON(h, r))
	}
	c.bus.Publish(eventbus.EventWmSetLayout, eventbus.WmSetLayoutPayload{
		MonitorID:   key.monitor,
		WorkspaceID: string(key.workspace),
		Rects:       rects,
	})

	c.animator.AnimateBatch(targets, duration, easing, nil)
}

func handleRectJSON(h winhandle.WindowHandle, r rect.Rect) eventbus.HandleRectJSON {
	return eventbus.HandleRectJSON{
		Handle: int64(h),
		Left:   r.Left,
		Top:    r.Top,
		Right:  r.Right,
		Bottom: r.Bottom,
	}
}

func (c *Core) onSettingsReload(snap *settings.Snapshot) {
	c.shortcut.OnSettingsChanged()
	c.walls.OnSettingsChanged()
	c.monMu.Lock()
	ids := make([]winhandle.MonitorId, 0, len(c.monitors))
	for id := range c.monitors {
		ids = append(ids, winhandle.MonitorId(id))
	}
	c.monMu.Unlock()
	for _, id := range ids {
		c.bars.Recompute(id)
	}
	c.bus.Publish(eventbus.EventSettingsChanged, nil)
}
