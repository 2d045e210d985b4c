package orchestrator

import (
	"seelencore/internal/eventbus"
	"seelencore/internal/monitorid"
	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// registerMonitors enumerates every currently attached monitor and brings
// each one fully online: workspace seeding, C7 registration, and widget
// creation. Called once during Start and again whenever a DisplayChanged
// event reports the monitor set may have changed.
func (c *Core) registerMonitors() {
	seen := make(map[string]bool)
	for _, info := range winapi.EnumMonitors() {
		id := monitorid.Resolve(info)
		seen[id] = true
		c.registerOneMonitor(id, info)
	}

	c.monMu.Lock()
	var gone []string
	for id := range c.monitors {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	c.monMu.Unlock()

	for _, id := range gone {
		c.unregisterMonitor(id, c.fallbackMonitor(id, seen))
	}

	if len(gone) > 0 || len(seen) > 0 {
		c.bus.Publish(eventbus.EventMonitorsChanged, eventbus.MonitorsChangedPayload{MonitorIDs: monitorIDList(seen)})
	}
}

func monitorIDList(seen map[string]bool) []string {
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// fallbackMonitor picks an arbitrary surviving monitor id for a window or
// workspace orphaned by id's removal. Returning "" when none remain is
// valid — RemoveMonitor/workspace teardown handles that by simply dropping
// the monitor's state.
func (c *Core) fallbackMonitor(removedID string, seen map[string]bool) string {
	for id := range seen {
		if id != removedID {
			return id
		}
	}
	return ""
}

func (c *Core) registerOneMonitor(id string, info winapi.MonitorInfo) {
	c.monMu.Lock()
	_, known := c.monitors[id]
	c.monitors[id] = info
	c.monMu.Unlock()

	if known {
		c.bars.RegisterMonitor(winhandle.MonitorId(id), info)
		return
	}

	defaultWorkspace := c.wsMgr.EnsureMonitor(id, "1")
	c.bars.RegisterMonitor(winhandle.MonitorId(id), info)

	if c.widgets != nil {
		bar, err := c.widgets.CreateBar(id, info)
		if err != nil && c.log != nil {
			c.log.Warn("orchestrator: create bar widget failed", "monitor", id, "error", err)
		}
		dock, err := c.widgets.CreateDock(id, info)
		if err != nil && c.log != nil {
			c.log.Warn("orchestrator: create dock widget failed", "monitor", id, "error", err)
		}
		c.bars.SetWidgetHandles(winhandle.MonitorId(id), bar, dock)
	}

	c.scheduleRetile(id, defaultWorkspace)
}

func (c *Core) unregisterMonitor(id, fallbackID string) {
	c.monMu.Lock()
	delete(c.monitors, id)
	c.monMu.Unlock()

	if err := c.wsMgr.RemoveMonitor(id, fallbackID); err != nil && c.log != nil {
		c.log.Warn("orchestrator: remove monitor from workspace manager failed", "monitor", id, "error", err)
	}
	c.bars.UnregisterMonitor(winhandle.MonitorId(id))
	if c.widgets != nil {
		c.widgets.DestroyWidgets(id)
	}

	c.treesMu.Lock()
	for key := range c.trees {
		if key.monitor == id {
			delete(c.trees, key)
		}
	}
	c.treesMu.Unlock()
}
