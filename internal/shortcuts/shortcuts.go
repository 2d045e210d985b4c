// Package shortcuts implements C9, the Shortcut Dispatcher: registers
// global hotkeys via the OS hotkey API and translates each firing into a
// Command posted to the relevant component (§4.9). Grounded on
// original_source/src/service/hotkeys.rs (start_app_shortcuts /
// hotkey_action_to_cli_command) and
// original_source/libs/core/src/state/settings/shortcuts.rs
// (SluHotkeyAction / SluHotkey / default_shortcuts).
//
// The Rust original posts the translated command back to its own IPC
// listener (AppIpc::send) purely to reuse the CLI argument parser; since
// this core's components all live in the same process, Dispatch routes the
// Command straight to the caller-supplied handler instead of round-tripping
// through a loopback pipe.
package shortcuts

import (
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"seelencore/internal/settings"
	"seelencore/pkg/winapi"
)

// Action names, mirroring SluHotkeyAction's variants (§4.9's action list:
// "workspace switch/move/send, wallpaper cycle, TWM focus/move/resize/
// reserve/toggle-float/toggle-monocle/cycle-stack, launcher toggle, dock
// app launch by index, misc restart/quit/open-settings").
const (
	ActionToggleAppsMenu       = "toggle_apps_menu"
	ActionToggleWorkspacesView = "toggle_workspaces_view"

	ActionTaskNext = "task_next"
	ActionTaskPrev = "task_prev"

	ActionPauseTiling    = "pause_tiling"
	ActionToggleFloat    = "toggle_float"
	ActionToggleMonocle  = "toggle_monocle"
	ActionCycleStackNext = "cycle_stack_next"
	ActionCycleStackPrev = "cycle_stack_prev"

	ActionReserveTop    = "reserve_top"
	ActionReserveBottom = "reserve_bottom"
	ActionReserveLeft   = "reserve_left"
	ActionReserveRight  = "reserve_right"
	ActionReserveFloat  = "reserve_float"
	ActionReserveStack  = "reserve_stack"

	ActionFocusTop    = "focus_top"
	ActionFocusBottom = "focus_bottom"
	ActionFocusLeft   = "focus_left"
	ActionFocusRight  = "focus_right"

	ActionIncreaseWidth  = "increase_width"
	ActionDecreaseWidth  = "decrease_width"
	ActionIncreaseHeight = "increase_height"
	ActionDecreaseHeight = "decrease_height"
	ActionRestoreSizes   = "restore_sizes"

	ActionMoveWindowUp    = "move_window_up"
	ActionMoveWindowDown  = "move_window_down"
	ActionMoveWindowLeft  = "move_window_left"
	ActionMoveWindowRight = "move_window_right"

	ActionStartWegApp = "start_weg_app"

	ActionSwitchWorkspace           = "switch_workspace"
	ActionMoveToWorkspace           = "move_to_workspace"
	ActionSendToWorkspace           = "send_to_workspace"
	ActionSwitchToNextWorkspace     = "switch_to_next_workspace"
	ActionSwitchToPreviousWorkspace = "switch_to_previous_workspace"
	ActionCreateNewWorkspace        = "create_new_workspace"
	ActionDestroyCurrentWorkspace   = "destroy_current_workspace"

	ActionCycleWallpaperNext = "cycle_wallpaper_next"
	ActionCycleWallpaperPrev = "cycle_wallpaper_prev"

	ActionToggleLauncher = "toggle_launcher"

	ActionMiscOpenSettings = "misc_open_settings"
	ActionMiscForceRestart = "misc_force_restart"
	ActionMiscForceQuit    = "misc_force_quit"
)

// Command is a dispatch target expressed the same way as the §6 IPC verb
// set: a verb plus positional arguments, e.g. {"wm", []string{"focus", "up"}}.
type Command struct {
	Verb string
	Args []string
}

// actionToCommand is the Go port of hotkey_action_to_cli_command: a pure
// mapping from action to the command it posts. MiscForceRestart/
// MiscForceQuit and ToggleAppsMenu have no CLI command (onHotkey routes the
// first two as a "misc" Command before this is consulted; the apps-menu
// toggle is a native UI toggle); ok is false for those.
func actionToCommand(a settings.HotkeyAction) (Command, bool) {
	switch a.Name {
	case ActionTaskNext:
		return taskSwitchCommand("select-next-task", a.SelectOnKeyUp), true
	case ActionTaskPrev:
		return taskSwitchCommand("select-previous-task", a.SelectOnKeyUp), true

	case ActionSwitchToNextWorkspace:
		return Command{"vd", []string{"switch-next"}}, true
	case ActionSwitchToPreviousWorkspace:
		return Command{"vd", []string{"switch-prev"}}, true
	case ActionSwitchWorkspace:
		return Command{"vd", []string{"switch-workspace", indexArg(a.Index)}}, true
	case ActionMoveToWorkspace:
		return Command{"vd", []string{"move-to-workspace", indexArg(a.Index)}}, true
	case ActionSendToWorkspace:
		return Command{"vd", []string{"send-to-workspace", indexArg(a.Index)}}, true
	case ActionCreateNewWorkspace:
		return Command{"vd", []string{"create-new-workspace"}}, true
	case ActionDestroyCurrentWorkspace:
		return Command{"vd", []string{"destroy-current-workspace"}}, true
	case ActionToggleWorkspacesView:
		return Command{"vd", []string{"toggle-workspaces-view"}}, true

	case ActionCycleWallpaperNext:
		return Command{"wallpaper", []string{"next"}}, true
	case ActionCycleWallpaperPrev:
		return Command{"wallpaper", []string{"prev"}}, true

	case ActionStartWegApp:
		return Command{"weg", []string{"foreground-or-run-app", indexArg(a.Index)}}, true
	case ActionToggleLauncher:
		return Command{"launcher", []string{"toggle"}}, true

	case ActionIncreaseWidth:
		return Command{"wm", []string{"width", "increase"}}, true
	case ActionDecreaseWidth:
		return Command{"wm", []string{"width", "decrease"}}, true
	case ActionIncreaseHeight:
		return Command{"wm", []string{"height", "increase"}}, true
	case ActionDecreaseHeight:
		return Command{"wm", []string{"height", "decrease"}}, true
	case ActionRestoreSizes:
		return Command{"wm", []string{"reset-workspace-size"}}, true

	case ActionFocusTop:
		return Command{"wm", []string{"focus", "up"}}, true
	case ActionFocusBottom:
		return Command{"wm", []string{"focus", "down"}}, true
	case ActionFocusLeft:
		return Command{"wm", []string{"focus", "left"}}, true
	case ActionFocusRight:
		return Command{"wm", []string{"focus", "right"}}, true

	case ActionMoveWindowUp:
		return Command{"wm", []string{"move", "up"}}, true
	case ActionMoveWindowDown:
		return Command{"wm", []string{"move", "down"}}, true
	case ActionMoveWindowLeft:
		return Command{"wm", []string{"move", "left"}}, true
	case ActionMoveWindowRight:
		return Command{"wm", []string{"move", "right"}}, true

	case ActionReserveTop:
		return Command{"wm", []string{"reserve", "top"}}, true
	case ActionReserveBottom:
		return Command{"wm", []string{"reserve", "bottom"}}, true
	case ActionReserveLeft:
		return Command{"wm", []string{"reserve", "left"}}, true
	case ActionReserveRight:
		return Command{"wm", []string{"reserve", "right"}}, true
	case ActionReserveFloat:
		return Command{"wm", []string{"reserve", "float"}}, true
	case ActionReserveStack:
		return Command{"wm", []string{"reserve", "stack"}}, true

	case ActionPauseTiling:
		return Command{"wm", []string{"toggle"}}, true
	case ActionToggleMonocle:
		return Command{"wm", []string{"toggle-monocle"}}, true
	case ActionToggleFloat:
		return Command{"wm", []string{"toggle-float"}}, true
	case ActionCycleStackNext:
		return Command{"wm", []string{"cycle-stack", "next"}}, true
	case ActionCycleStackPrev:
		return Command{"wm", []string{"cycle-stack", "prev"}}, true

	case ActionMiscOpenSettings:
		return Command{"settings", nil}, true

	default:
		return Command{}, false
	}
}

func taskSwitchCommand(verb string, selectOnKeyUp bool) Command {
	args := []string{verb}
	if selectOnKeyUp {
		args = append(args, "--auto-confirm")
	}
	return Command{"task-switcher", args}
}

func indexArg(i int) string {
	return strconv.Itoa(i)
}

// Dispatcher owns the registered set of global hotkeys and the dedicated
// OS-locked pump thread that receives WM_HOTKEY (§5: RegisterHotKey and its
// WM_HOTKEY deliveries must share one thread). Capture mode (§4.9) reuses
// the same thread for its keyboard hook for the same reason.
type Dispatcher struct {
	log      *slog.Logger
	dispatch func(Command)

	quit chan struct{}
	done chan struct{}
	tid  uint32

	idMu     sync.Mutex
	byID     map[int]settings.HotkeyDef
	nextHKID int

	pendingMu sync.Mutex
	pending   []func()

	captureMu       sync.Mutex
	capturing       bool
	pressed         []string
	pressedSeen     map[string]bool
	onCaptureUpdate func(keys []string)
	onCaptureDone   func(keys []string, confirmed bool)
}

// New constructs a Dispatcher. dispatch receives every hotkey-triggered
// Command; the misc restart/quit actions arrive as
// Command{Verb: "misc", Args: []string{<action name>}}. Dispatcher itself
// has no process-control access.
func New(log *slog.Logger, dispatch func(Command)) *Dispatcher {
	return &Dispatcher{
		log:      log,
		dispatch: dispatch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		byID:     make(map[int]settings.HotkeyDef),
	}
}

// Start launches the pump thread, which registers every currently enabled
// hotkey from settings.Current() before entering its message loop.
func (d *Dispatcher) Start() {
	tidCh := make(chan uint32, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(d.done)
		winapi.RunHotkeyPump(d.onPumpStart, d.onHotkey, d.drainPending, tidCh, d.quit)
	}()
	d.tid = <-tidCh
}

// Stop terminates the pump thread, unregistering every hotkey on exit.
func (d *Dispatcher) Stop() {
	close(d.quit)
	<-d.done
}

// OnSettingsChanged re-reads the shortcut list and re-registers, run on the
// pump thread since RegisterHotKey/UnregisterHotKey require it.
func (d *Dispatcher) OnSettingsChanged() {
	d.runOnPumpThread(d.registerAll)
}

func (d *Dispatcher) onPumpStart() {
	d.registerAll()
}

// runOnPumpThread queues fn and wakes the pump thread to drain the queue;
// used for anything that must execute with the pump thread's identity
// (RegisterHotKey calls, keyboard-hook install/remove).
func (d *Dispatcher) runOnPumpThread(fn func()) {
	d.pendingMu.Lock()
	d.pending = append(d.pending, fn)
	d.pendingMu.Unlock()
	winapi.PostReregister(d.tid)
}

func (d *Dispatcher) drainPending() {
	d.pendingMu.Lock()
	fns := d.pending
	d.pending = nil
	d.pendingMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// registerAll unregisters every previously registered hotkey and
// re-registers from the current snapshot, skipping any whose keys fail to
// parse and any gated behind a disabled widget (§4.9: "attached_widget if
// set, gates registration on that widget being enabled").
func (d *Dispatcher) registerAll() {
	d.registerAllWith(settings.Current())
}

// registerAllWith is registerAll parameterised on an explicit snapshot, so
// tests can exercise the widget-gating/key-parsing logic without depending
// on the global atomic pointer (mirrors eligibility's classifyWith split).
func (d *Dispatcher) registerAllWith(snap *settings.Snapshot) {
	d.idMu.Lock()
	for id := range d.byID {
		winapi.UnregisterHotKey(id)
	}
	d.byID = make(map[int]settings.HotkeyDef)
	d.idMu.Unlock()

	if snap == nil || !snap.ShortcutsEnabled {
		return
	}

	for _, hk := range snap.Shortcuts {
		if hk.AttachedTo != "" && !snap.WidgetsEnabled[hk.AttachedTo] {
			continue
		}
		mods, vkey, ok := parseKeys(hk.Keys)
		if !ok {
			if d.log != nil {
				d.log.Warn("shortcuts: failed to parse hotkey keys", "id", hk.ID, "keys", hk.Keys)
			}
			continue
		}

		d.idMu.Lock()
		id := d.nextHKID
		d.nextHKID++
		d.idMu.Unlock()

		if !winapi.RegisterHotKey(id, mods, vkey) {
			if d.log != nil {
				d.log.Warn("shortcuts: RegisterHotKey failed", "id", hk.ID, "keys", hk.Keys)
			}
			continue
		}

		d.idMu.Lock()
		d.byID[id] = hk
		d.idMu.Unlock()
	}
}

// onHotkey runs on the pump thread for every WM_HOTKEY. MiscForceRestart
// and MiscForceQuit are reported back as direct actions so the orchestrator
// can perform the process-control side effect itself; every other action
// with a mapped Command is forwarded to dispatch.
func (d *Dispatcher) onHotkey(id int) {
	d.idMu.Lock()
	hk, ok := d.byID[id]
	d.idMu.Unlock()
	if !ok {
		return
	}

	if d.log != nil {
		d.log.Debug("shortcuts: hotkey triggered", "action", hk.Action.Name)
	}

	switch hk.Action.Name {
	case ActionMiscForceRestart, ActionMiscForceQuit:
		if d.dispatch != nil {
			d.dispatch(Command{Verb: "misc", Args: []string{hk.Action.Name}})
		}
		return
	}

	if cmd, ok := actionToCommand(hk.Action); ok && d.dispatch != nil {
		d.dispatch(cmd)
	}
}

// parseKeys splits a key-name list into RegisterHotKey's modifier bitmask
// and single non-modifier virtual-key, per VKeyFromName's vocabulary.
func parseKeys(keys []string) (modifiers, vkey uint32, ok bool) {
	var found bool
	for _, k := range keys {
		switch k {
		case "Win":
			modifiers |= winapi.ModWin
		case "Ctrl":
			modifiers |= winapi.ModControl
		case "Alt":
			modifiers |= winapi.ModAlt
		case "Shift":
			modifiers |= winapi.ModShift
		default:
			vk, resolved := winapi.VKeyFromName(k)
			if !resolved {
				return 0, 0, false
			}
			vkey = vk
			found = true
		}
	}
	return modifiers, vkey, found
}

// BeginCapture starts §4.9's capture mode: the keyboard is stolen (no key
// reaches any other app) and every non-Escape keydown is added to a
// pressed-set reported via onUpdate after each change. Escape cancels
// immediately. The caller is responsible for any capture timeout, calling
// CancelCapture when it elapses.
func (d *Dispatcher) BeginCapture(onUpdate func(keys []string), onDone func(keys []string, confirmed bool)) {
	d.runOnPumpThread(func() {
		d.captureMu.Lock()
		d.capturing = true
		d.pressed = nil
		d.pressedSeen = make(map[string]bool)
		d.onCaptureUpdate = onUpdate
		d.onCaptureDone = onDone
		d.captureMu.Unlock()

		winapi.InstallKeyboardHook(d.onCaptureKey)
	})
}

// ConfirmCapture ends capture mode and reports the final pressed-set as
// confirmed.
func (d *Dispatcher) ConfirmCapture() {
	d.runOnPumpThread(func() { d.endCapture(true) })
}

// CancelCapture ends capture mode without committing the pressed-set.
func (d *Dispatcher) CancelCapture() {
	d.runOnPumpThread(func() { d.endCapture(false) })
}

func (d *Dispatcher) endCapture(confirmed bool) {
	winapi.RemoveKeyboardHook()

	d.captureMu.Lock()
	if !d.capturing {
		d.captureMu.Unlock()
		return
	}
	d.capturing = false
	keys := d.pressed
	done := d.onCaptureDone
	d.onCaptureUpdate = nil
	d.onCaptureDone = nil
	d.captureMu.Unlock()

	if done != nil {
		done(keys, confirmed)
	}
}

// onCaptureKey is the low-level keyboard hook sink: it runs on the pump
// thread (InstallKeyboardHook requires that) for every keydown/keyup while
// capturing, and always swallows (steals the keyboard).
func (d *Dispatcher) onCaptureKey(vk uint32, down bool) bool {
	d.captureMu.Lock()
	if !d.capturing {
		d.captureMu.Unlock()
		return false
	}
	if !down {
		d.captureMu.Unlock()
		return true
	}
	if vk == vkEscape {
		d.captureMu.Unlock()
		d.endCapture(false)
		return true
	}

	name, ok := winapi.VKeyName(vk)
	if ok && !d.pressedSeen[name] {
		d.pressedSeen[name] = true
		d.pressed = append(d.pressed, name)
		sort.Strings(d.pressed)
	}
	keys := append([]string(nil), d.pressed...)
	update := d.onCaptureUpdate
	d.captureMu.Unlock()

	if update != nil {
		update(keys)
	}
	return true
}

const vkEscape = 0x1B
