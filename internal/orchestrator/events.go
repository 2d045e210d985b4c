package orchestrator

import (
	"seelencore/internal/bargeometry"
	"seelencore/internal/eventbus"
	"seelencore/internal/eventsource"
	"seelencore/internal/monitorid"
	"seelencore/internal/registry"
	"seelencore/internal/wallpaper"
	"seelencore/internal/winhandle"
	"seelencore/internal/workspace"
	"seelencore/pkg/winapi"
)

// onRegistryEvent reacts to C3 membership changes: a newly eligible window
// is placed on its current monitor's active workspace and added to that
// workspace's layout tree; a removed window is pruned from every layout
// tree of the monitor it was last recorded on (it may have moved between
// that monitor's workspaces since being added). A removed window with no
// recorded monitor is left alone.
func (c *Core) onRegistryEvent(e registry.Event) {
	switch e.Kind {
	case registry.Added:
		c.placeNewWindow(e.Window.Handle)
	case registry.Removed:
		c.dropWindow(e.Window.Handle)
	}
	c.bus.Publish(eventbus.EventWindowsChanged, eventbus.WindowsChangedPayload{
		Reason: e.Kind.String(),
		Handle: int64(e.Window.Handle),
	})
	c.publishWegItems()
}

// publishWegItems republishes the full taskbar item list from C3's
// most-recently-focused-first snapshot (§6's EventWegItems feed).
func (c *Core) publishWegItems() {
	windows := c.registry.Windows()
	items := make([]eventbus.WegItem, 0, len(windows))
	for _, w := range windows {
		items = append(items, eventbus.WegItem{
			Handle:      int64(w.Handle),
			Title:       w.Title,
			Exe:         w.Exe,
			ClassName:   w.ClassName,
			LastFocusAt: w.LastFocusAt.Unix(),
		})
	}
	c.bus.Publish(eventbus.EventWegItems, eventbus.WegItemsPayload{Items: items})
}

func (c *Core) placeNewWindow(h winhandle.WindowHandle) {
	monID, ok := c.resolveMonitor(h)
	if !ok {
		return
	}
	active := c.wsMgr.EnsureMonitor(monID, "1")
	if err := c.wsMgr.SendTo(monID, h, active); err != nil && c.log != nil {
		c.log.Warn("orchestrator: place new window failed", "error", err)
	}
	if err := c.ensureTree(treeKey{monitor: monID, workspace: active}).Add(h); err != nil && c.log != nil {
		c.log.Warn("orchestrator: add window to layout tree failed", "error", err)
	}
	c.rememberMonitor(h, monID)
	c.scheduleRetile(monID, active)
}

func (c *Core) dropWindow(h winhandle.WindowHandle) {
	c.winMonMu.Lock()
	monID, tracked := c.windowMonitor[h]
	delete(c.windowMonitor, h)
	c.winMonMu.Unlock()
	if !tracked {
		return
	}

	c.treesMu.Lock()
	for key, tree := range c.trees {
		if key.monitor == monID {
			tree.Remove(h)
		}
	}
	c.treesMu.Unlock()

	if active, ok := c.wsMgr.ActiveWorkspace(monID); ok {
		c.scheduleRetile(monID, active)
	}
}

func (c *Core) resolveMonitor(h winhandle.WindowHandle) (string, bool) {
	info, ok := winapi.FromWindow(h.Native())
	if !ok {
		return "", false
	}
	return monitorid.Resolve(info), true
}

func (c *Core) rememberMonitor(h winhandle.WindowHandle, monID string) {
	c.winMonMu.Lock()
	c.windowMonitor[h] = monID
	c.winMonMu.Unlock()
}

// onWorkspaceEvent bridges C4 mutations to the UI event catalogue and
// triggers a retile whenever the set of windows actually on screen for a
// monitor may have changed.
func (c *Core) onWorkspaceEvent(e workspace.Event) {
	switch e.Kind {
	case workspace.Activated, workspace.WindowMoved, workspace.PinChanged:
		if active, ok := c.wsMgr.ActiveWorkspace(e.MonitorID); ok {
			c.scheduleRetile(e.MonitorID, active)
			c.publishWallpaper(e.MonitorID, active)
		}
	}
	if e.Kind != workspace.PinChanged {
		c.bus.Publish(eventbus.EventVirtualDesktopsChanged, eventbus.VirtualDesktopsChangedPayload{
			MonitorID: e.MonitorID,
		})
	}
}

// publishWallpaper resolves and announces the wallpaper that should now be
// showing behind monitorID/workspaceID — the orchestrator's entire C8
// responsibility, since no OS wallpaper-setter exists to call directly
// (resolution is published for an external renderer to apply).
func (c *Core) publishWallpaper(monitorID string, workspaceID winhandle.WorkspaceId) {
	id, ok := c.walls.CurrentWallpaper(winhandle.MonitorId(monitorID), workspaceID)
	if !ok {
		return
	}
	c.bus.Publish(eventbus.EventWallpaperChanged, eventbus.WallpaperChangedPayload{
		MonitorID:   monitorID,
		WorkspaceID: string(workspaceID),
		WallpaperID: id,
	})
}

// onBarGeometryEvent retiles a monitor whenever its usable tiling rect
// changes shape (bar/dock toggled, DPI change, resolution change).
func (c *Core) onBarGeometryEvent(e bargeometry.Event) {
	if e.Kind != bargeometry.GeometryChanged {
		return
	}
	monID := string(e.MonitorID)
	if active, ok := c.wsMgr.ActiveWorkspace(monID); ok {
		c.scheduleRetile(monID, active)
	}
}

// onWallpaperEvent re-resolves and republishes the active wallpaper for
// every monitor's active workspace whenever rotation advances — the
// Manager itself doesn't know which (monitor, workspace) pairs are
// watching which collection, so re-announcing all of them is simplest and
// matches the low cadence of rotation events.
func (c *Core) onWallpaperEvent(wallpaper.Event) {
	c.monMu.Lock()
	ids := make([]string, 0, len(c.monitors))
	for id := range c.monitors {
		ids = append(ids, id)
	}
	c.monMu.Unlock()

	for _, monID := range ids {
		if active, ok := c.wsMgr.ActiveWorkspace(monID); ok {
			c.publishWallpaper(monID, active)
		}
	}
}

// onSourceEvent handles the C1 kinds that are C10's own responsibility
// rather than C3's: monitor topology changes, session power transitions,
// and cross-monitor window drags.
func (c *Core) onSourceEvent(e eventsource.Event) {
	switch e.Kind {
	case eventsource.DisplayChanged:
		c.registerMonitors()
	case eventsource.SessionSuspend:
		c.registry.PauseSweep()
		c.walls.Stop()
		c.bus.Publish(eventbus.EventPowerStatus, eventbus.PowerStatusPayload{Suspended: true})
	case eventsource.SessionResume:
		c.registry.ResumeSweep()
		c.walls.Start()
		c.bus.Publish(eventbus.EventPowerStatus, eventbus.PowerStatusPayload{Suspended: false})
	case eventsource.ColorSchemeChanged:
		c.bus.Publish(eventbus.EventColorsChanged, nil)
	case eventsource.TextScaleChanged:
		c.recomputeAllBars()
	case eventsource.SyntheticMonitorChanged:
		c.handleMonitorChanged(e.Handle)
	}
}

func (c *Core) recomputeAllBars() {
	c.monMu.Lock()
	defer c.monMu.Unlock()
	for id := range c.monitors {
		c.bars.Recompute(winhandle.MonitorId(id))
	}
}

// handleMonitorChanged moves h's workspace membership to match the monitor
// it was just dragged onto, using the last monitor this package recorded
// for h (the event itself carries no "from" monitor).
func (c *Core) handleMonitorChanged(h winhandle.WindowHandle) {
	newID, ok := c.resolveMonitor(h)
	if !ok {
		return
	}

	c.winMonMu.Lock()
	oldID, tracked := c.windowMonitor[h]
	c.winMonMu.Unlock()
	if !tracked || oldID == newID {
		c.rememberMonitor(h, newID)
		return
	}

	target, ok := c.wsMgr.ActiveWorkspace(newID)
	if !ok {
		target = c.wsMgr.EnsureMonitor(newID, "1")
	}
	if err := c.wsMgr.MoveToMonitor(oldID, h, newID, target); err != nil && c.log != nil {
		c.log.Warn("orchestrator: move window across monitors failed", "error", err)
		return
	}

	c.treesMu.Lock()
	for key, tree := range c.trees {
		if key.monitor == oldID {
			tree.Remove(h)
		}
	}
	c.treesMu.Unlock()
	if err := c.ensureTree(treeKey{monitor: newID, workspace: target}).Add(h); err != nil && c.log != nil {
		c.log.Warn("orchestrator: add window to layout tree failed", "error", err)
	}
	c.rememberMonitor(h, newID)

	if oldActive, ok := c.wsMgr.ActiveWorkspace(oldID); ok {
		c.scheduleRetile(oldID, oldActive)
	}
	c.scheduleRetile(newID, target)
}
