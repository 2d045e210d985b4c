package orchestrator

import (
	"fmt"
	"strconv"

	"seelencore/internal/eventbus"
	"seelencore/internal/layout"
	"seelencore/internal/settings"
	"seelencore/internal/shortcuts"
	"seelencore/internal/winhandle"
	"seelencore/pkg/rect"
	"seelencore/pkg/winapi"
)

// knownVerbs is the §6 command verb set; Dispatch rejects anything else so
// a malformed ipc record surfaces as an error instead of silently doing
// nothing.
var knownVerbs = map[string]bool{
	"wm": true, "vd": true, "wallpaper": true, "weg": true,
	"launcher": true, "misc": true, "settings": true, "popup": true, "debug": true,
}

// Dispatch implements ipc.Dispatcher: validates cmd.Verb, then routes it
// exactly as a hotkey-originated Command would be.
func (c *Core) Dispatch(cmd shortcuts.Command) error {
	if !knownVerbs[cmd.Verb] {
		return fmt.Errorf("orchestrator: unknown command verb %q", cmd.Verb)
	}
	c.dispatchCommand(cmd)
	return nil
}

// dispatchCommand routes a Command from C9 (or, via ipc, an external
// client) to the component it names — the same verb set §6 gives the named
// pipe protocol, since both entry points end up calling this.
func (c *Core) dispatchCommand(cmd shortcuts.Command) {
	switch cmd.Verb {
	case "wm":
		c.dispatchWM(cmd.Args)
	case "vd":
		c.dispatchVD(cmd.Args)
	case "wallpaper":
		c.dispatchWallpaper(cmd.Args)
	case "weg":
		c.bus.Publish(eventbus.EventWegCommand, forwardPayload(cmd.Args))
	case "launcher":
		c.bus.Publish(eventbus.EventLauncherCommand, forwardPayload(cmd.Args))
	case "popup":
		c.bus.Publish(eventbus.EventPopupCommand, forwardPayload(cmd.Args))
	case "debug":
		c.bus.Publish(eventbus.EventDebugCommand, forwardPayload(cmd.Args))
	case "misc":
		c.dispatchMisc(cmd.Args)
	case "settings":
		c.bus.Publish(eventbus.EventSettingsChanged, nil)
	}
}

// forwardPayload splits a command's own action off from its remaining
// arguments so the published event gives the UI surface a real payload
// shape instead of a bare string slice (§6 stability rule).
func forwardPayload(args []string) eventbus.CommandForwardPayload {
	action := arg(args, 0)
	rest := []string{}
	if len(args) > 1 {
		rest = args[1:]
	}
	return eventbus.CommandForwardPayload{Action: action, Args: rest}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (c *Core) focusedWindow() (winhandle.WindowHandle, bool) {
	h := winapi.ForegroundWindow()
	if h == 0 {
		return winhandle.Zero, false
	}
	return winhandle.FromNative(h), true
}

func (c *Core) dispatchWM(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "focus":
		c.wmFocus(arg(args, 1))
	case "move":
		c.wmMove(arg(args, 1))
	case "reserve":
		c.wmReserve(arg(args, 1))
	case "toggle":
		c.wmTogglePause()
	case "toggle-float":
		c.wmToggleFloat()
	case "toggle-monocle":
		c.bus.Publish(eventbus.EventWmForceRetiling, nil) // §9 Open Question: monocle view composited client-side
	case "cycle-stack":
		c.wmCycleStack(arg(args, 1) != "prev")
	case "width":
		c.wmResize(true, arg(args, 1) == "increase")
	case "height":
		c.wmResize(false, arg(args, 1) == "increase")
	case "reset-workspace-size":
		c.wmResetSizes()
	}
}

// focusedKeyAndTree resolves the (monitor, workspace) tree that owns the
// current foreground window, since every wm sub-command acts relative to
// it.
func (c *Core) focusedKeyAndTree() (h winhandle.WindowHandle, key treeKey, tree *layout.Tree, ok bool) {
	h, ok = c.focusedWindow()
	if !ok {
		return
	}
	c.winMonMu.Lock()
	monID, tracked := c.windowMonitor[h]
	c.winMonMu.Unlock()
	if !tracked {
		ok = false
		return
	}
	ws, known := c.wsMgr.ActiveWorkspace(monID)
	if !known {
		ok = false
		return
	}
	key = treeKey{monitor: monID, workspace: ws}
	tree = c.ensureTree(key)
	ok = true
	return
}

// wmFocus moves OS foreground to the tiled neighbour of the focused window
// nearest in direction dir ("up"/"down"/"left"/"right"), found by
// comparing the last computed rect of every other window in the same tree
// (§4.5's nearest-peer rule, ChebyshevCentreDistance).
func (c *Core) wmFocus(dir string) {
	neighbour, ok := c.nearestNeighbour(dir)
	if !ok {
		return
	}
	winapi.SetForeground(neighbour.Native())
}

// wmMove swaps the focused window with its nearest neighbour in dir,
// keeping focus on the same window (now in the neighbour's old slot).
func (c *Core) wmMove(dir string) {
	h, key, tree, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	neighbour, ok := c.nearestNeighbour(dir)
	if !ok {
		return
	}
	tree.Swap(h, neighbour)
	c.scheduleRetile(key.monitor, key.workspace)
}

func (c *Core) nearestNeighbour(dir string) (winhandle.WindowHandle, bool) {
	h, key, _, ok := c.focusedKeyAndTree()
	if !ok {
		return winhandle.Zero, false
	}

	c.treesMu.Lock()
	rects := c.lastRects[key]
	c.treesMu.Unlock()

	origin, known := rects[h]
	if !known {
		return winhandle.Zero, false
	}
	ox, oy := origin.Centre()

	var best winhandle.WindowHandle
	bestDist := int32(-1)
	for candidate, r := range rects {
		if candidate == h {
			continue
		}
		cx, cy := r.Centre()
		if !directionMatches(dir, ox, oy, cx, cy) {
			continue
		}
		dist := rect.ChebyshevCentreDistance(origin, r)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}
	return best, bestDist >= 0
}

func directionMatches(dir string, ox, oy, cx, cy int32) bool {
	switch dir {
	case "up":
		return cy < oy
	case "down":
		return cy > oy
	case "left":
		return cx < ox
	case "right":
		return cx > ox
	default:
		return false
	}
}

// wmReserve records which edge the next placed window should favour.
// layout.Tree's Add has no directional hint to honour this against, so
// this is, for now, purely the UI-visible reservation affordance §6
// documents — the orchestrator still announces it faithfully, it just
// cannot yet bias tree placement with it.
func (c *Core) wmReserve(side string) {
	_, key, _, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	c.treesMu.Lock()
	if side == "" || c.reserved[key.monitor] == side {
		delete(c.reserved, key.monitor)
		side = ""
	} else {
		c.reserved[key.monitor] = side
	}
	c.treesMu.Unlock()
	c.bus.Publish(eventbus.EventSetReservation, eventbus.SetReservationPayload{MonitorID: key.monitor, Side: side})
}

func (c *Core) wmTogglePause() {
	_, key, _, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	c.treesMu.Lock()
	c.paused[key] = !c.paused[key]
	paused := c.paused[key]
	c.treesMu.Unlock()
	if !paused {
		c.scheduleRetile(key.monitor, key.workspace)
	}
}

func (c *Core) wmToggleFloat() {
	h, key, tree, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	if tree.Contains(h) {
		tree.Remove(h)
	} else {
		_ = tree.Add(h)
	}
	c.scheduleRetile(key.monitor, key.workspace)
}

func (c *Core) wmCycleStack(forward bool) {
	h, key, tree, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	nodeID, ok := tree.NodeOf(h)
	if !ok {
		return
	}
	next, ok := tree.CycleStackActive(nodeID, forward)
	if !ok {
		return
	}
	winapi.SetForeground(next.Native())
	c.scheduleRetile(key.monitor, key.workspace)
}

// wmResize nudges the focused window's splitter share by the configured
// delta (§4.5's interactive resize), locating its node via NodeOf since the
// tree has no parent back-references to climb from the handle directly.
func (c *Core) wmResize(width, increase bool) {
	h, key, tree, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	_ = width // both axes share one grow factor per node in this tree shape
	nodeID, ok := tree.NodeOf(h)
	if !ok {
		return
	}
	n := tree.Node(nodeID)
	if n == nil {
		return
	}
	delta := settings.Current().TilingResizeDeltaPercent / 100
	factor := n.GrowFactor
	if increase {
		factor += delta
	} else {
		factor -= delta
	}
	tree.UpdateGrowFactor(nodeID, factor)
	c.scheduleRetile(key.monitor, key.workspace)
}

func (c *Core) wmResetSizes() {
	_, key, _, ok := c.focusedKeyAndTree()
	if !ok {
		return
	}
	c.treesMu.Lock()
	delete(c.trees, key)
	c.treesMu.Unlock()
	c.scheduleRetile(key.monitor, key.workspace)
}

func (c *Core) dispatchVD(args []string) {
	if len(args) == 0 {
		return
	}
	h, ok := c.focusedWindow()
	var monID string
	if ok {
		c.winMonMu.Lock()
		monID = c.windowMonitor[h]
		c.winMonMu.Unlock()
	}
	if monID == "" {
		return
	}

	switch args[0] {
	case "switch-workspace":
		c.switchByIndex(monID, arg(args, 1))
	case "move-to-workspace":
		c.moveByIndex(monID, h, arg(args, 1), true)
	case "send-to-workspace":
		c.moveByIndex(monID, h, arg(args, 1), false)
	case "switch-next":
		c.switchRelative(monID, 1)
	case "switch-prev":
		c.switchRelative(monID, -1)
	case "create-new-workspace":
		if _, err := c.wsMgr.CreateWorkspace(monID, "workspace"); err != nil && c.log != nil {
			c.log.Warn("orchestrator: create workspace failed", "error", err)
		}
	case "destroy-current-workspace":
		if active, ok := c.wsMgr.ActiveWorkspace(monID); ok {
			if err := c.wsMgr.DestroyWorkspace(monID, active); err != nil && c.log != nil {
				c.log.Warn("orchestrator: destroy workspace failed", "error", err)
			}
		}
	case "toggle-workspaces-view":
		c.bus.Publish(eventbus.EventVirtualDesktopsChanged, eventbus.VirtualDesktopsChangedPayload{MonitorID: monID})
	}
}

func (c *Core) switchByIndex(monID, idxStr string) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return
	}
	ids := c.wsMgr.Workspaces(monID)
	if idx < 0 || idx >= len(ids) {
		return
	}
	if err := c.wsMgr.SwitchTo(monID, ids[idx]); err != nil && c.log != nil {
		c.log.Warn("orchestrator: switch workspace failed", "error", err)
	}
}

func (c *Core) moveByIndex(monID string, h winhandle.WindowHandle, idxStr string, andSwitch bool) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil || h == winhandle.Zero {
		return
	}
	ids := c.wsMgr.Workspaces(monID)
	if idx < 0 || idx >= len(ids) {
		return
	}
	target := ids[idx]
	if err := c.wsMgr.SendTo(monID, h, target); err != nil && c.log != nil {
		c.log.Warn("orchestrator: send to workspace failed", "error", err)
		return
	}
	c.treesMu.Lock()
	for key, tree := range c.trees {
		if key.monitor == monID && key.workspace != target {
			tree.Remove(h)
		}
	}
	c.treesMu.Unlock()
	_ = c.ensureTree(treeKey{monitor: monID, workspace: target}).Add(h)
	if andSwitch {
		if err := c.wsMgr.SwitchTo(monID, target); err != nil && c.log != nil {
			c.log.Warn("orchestrator: switch workspace failed", "error", err)
		}
	}
}

func (c *Core) switchRelative(monID string, delta int) {
	ids := c.wsMgr.Workspaces(monID)
	if len(ids) == 0 {
		return
	}
	active, ok := c.wsMgr.ActiveWorkspace(monID)
	if !ok {
		return
	}
	cur := 0
	for i, id := range ids {
		if id == active {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(ids) + len(ids)) % len(ids)
	if err := c.wsMgr.SwitchTo(monID, ids[next]); err != nil && c.log != nil {
		c.log.Warn("orchestrator: switch workspace failed", "error", err)
	}
}

func (c *Core) dispatchWallpaper(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "next":
		c.walls.Next()
	case "prev":
		c.walls.Previous()
	}
}

// dispatchMisc handles the process-control actions shortcuts.Dispatcher
// reports back through Command rather than performing directly (see
// shortcuts.onHotkey).
func (c *Core) dispatchMisc(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case shortcuts.ActionMiscForceQuit:
		c.Stop()
	case shortcuts.ActionMiscForceRestart:
		c.restartRequested.Store(true)
		c.Stop()
	}
}
