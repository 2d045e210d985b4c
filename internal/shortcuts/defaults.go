package shortcuts

import (
	"strconv"

	"github.com/google/uuid"

	"seelencore/internal/settings"
)

// Sanitize appends any default hotkey whose action isn't already bound in
// snap.Shortcuts, then drops duplicate ids, empty-key bindings, and unknown
// actions. Grounded on SluShortcutsSettings::sanitize: settings are loaded
// once at startup and on every external file change, so a newly-introduced
// default action (shipped in a core update) needs to be backfilled into an
// existing user's persisted shortcut list without disturbing their
// customisations of the defaults they already have.
func Sanitize(snap *settings.Snapshot) {
	existing := make(map[string]bool, len(snap.Shortcuts))
	for _, hk := range snap.Shortcuts {
		existing[hk.Action.Name] = true
	}
	for _, def := range DefaultShortcuts() {
		if !existing[def.Action.Name] {
			snap.Shortcuts = append(snap.Shortcuts, def)
		}
	}

	seenIDs := make(map[string]bool, len(snap.Shortcuts))
	kept := snap.Shortcuts[:0]
	for _, hk := range snap.Shortcuts {
		_, known := actionToCommand(hk.Action)
		switch hk.Action.Name {
		case ActionToggleAppsMenu, ActionMiscForceRestart, ActionMiscForceQuit:
			known = true
		}
		if seenIDs[hk.ID] || len(hk.Keys) == 0 || !known {
			continue
		}
		seenIDs[hk.ID] = true
		kept = append(kept, hk)
	}
	snap.Shortcuts = kept
}

// DefaultShortcuts returns the out-of-the-box global hotkey set, a direct
// port of shortcuts.rs's _default_shortcuts plus the per-digit bindings
// default_shortcuts layers on top (weg app launch, workspace switch/move/
// send — one hotkey per digit 1-9 then 0).
func DefaultShortcuts() []settings.HotkeyDef {
	const wm = "@seelen/window-manager"

	hk := func(action settings.HotkeyAction, keys ...string) settings.HotkeyDef {
		return settings.HotkeyDef{ID: uuid.NewString(), Action: action, Keys: keys}
	}
	system := func(d settings.HotkeyDef) settings.HotkeyDef { d.System = true; return d }
	readonly := func(d settings.HotkeyDef) settings.HotkeyDef { d.Readonly = true; return d }
	attached := func(d settings.HotkeyDef, widget string) settings.HotkeyDef {
		d.AttachedTo = widget
		return d
	}
	act := func(name string) settings.HotkeyAction { return settings.HotkeyAction{Name: name} }

	defaults := []settings.HotkeyDef{
		attached(hk(act(ActionToggleAppsMenu), "Win"), "@seelen/apps-menu"),

		attached(system(hk(settings.HotkeyAction{Name: ActionTaskNext, SelectOnKeyUp: true}, "Alt", "Tab")), "@seelen/task-switcher"),
		attached(system(hk(settings.HotkeyAction{Name: ActionTaskPrev, SelectOnKeyUp: true}, "Alt", "Shift", "Tab")), "@seelen/task-switcher"),
		attached(system(hk(settings.HotkeyAction{Name: ActionTaskNext}, "Alt", "Ctrl", "Tab")), "@seelen/task-switcher"),
		attached(system(hk(settings.HotkeyAction{Name: ActionTaskPrev}, "Alt", "Ctrl", "Shift", "Tab")), "@seelen/task-switcher"),

		attached(hk(act(ActionPauseTiling), "Win", "P"), wm),
		attached(hk(act(ActionToggleFloat), "Win", "F"), wm),
		attached(hk(act(ActionToggleMonocle), "Win", "M"), wm),

		attached(hk(act(ActionCycleStackNext), "Win", "Alt", "Right"), wm),
		attached(hk(act(ActionCycleStackPrev), "Win", "Alt", "Left"), wm),

		attached(hk(act(ActionReserveTop), "Win", "Shift", "I"), wm),
		attached(hk(act(ActionReserveBottom), "Win", "Shift", "K"), wm),
		attached(hk(act(ActionReserveLeft), "Win", "Shift", "J"), wm),
		attached(hk(act(ActionReserveRight), "Win", "Shift", "L"), wm),
		attached(hk(act(ActionReserveFloat), "Win", "Shift", "U"), wm),
		attached(hk(act(ActionReserveStack), "Win", "Shift", "O"), wm),

		attached(hk(act(ActionFocusTop), "Alt", "I"), wm),
		attached(hk(act(ActionFocusBottom), "Alt", "K"), wm),
		attached(hk(act(ActionFocusLeft), "Alt", "J"), wm),
		attached(hk(act(ActionFocusRight), "Alt", "L"), wm),

		attached(hk(act(ActionIncreaseWidth), "Win", "Alt", "="), wm),
		attached(hk(act(ActionDecreaseWidth), "Win", "Alt", "-"), wm),
		attached(hk(act(ActionIncreaseHeight), "Win", "Ctrl", "="), wm),
		attached(hk(act(ActionDecreaseHeight), "Win", "Ctrl", "-"), wm),
		attached(hk(act(ActionRestoreSizes), "Win", "Alt", "0"), wm),

		attached(hk(act(ActionMoveWindowUp), "Shift", "Alt", "I"), wm),
		attached(hk(act(ActionMoveWindowDown), "Shift", "Alt", "K"), wm),
		attached(hk(act(ActionMoveWindowLeft), "Shift", "Alt", "J"), wm),
		attached(hk(act(ActionMoveWindowRight), "Shift", "Alt", "L"), wm),

		system(hk(act(ActionSwitchToNextWorkspace), "Ctrl", "Win", "Right")),
		system(hk(act(ActionSwitchToPreviousWorkspace), "Ctrl", "Win", "Left")),
		system(hk(act(ActionCreateNewWorkspace), "Ctrl", "Win", "D")),
		system(hk(act(ActionDestroyCurrentWorkspace), "Ctrl", "Win", "F4")),
		attached(system(hk(act(ActionToggleWorkspacesView), "Win", "Tab")), "@seelen/workspaces-viewer"),

		hk(act(ActionCycleWallpaperNext), "Ctrl", "Win", "Up"),
		hk(act(ActionCycleWallpaperPrev), "Ctrl", "Win", "Down"),

		hk(act(ActionMiscOpenSettings), "Win", "K"),
		readonly(hk(act(ActionMiscForceRestart), "Ctrl", "Win", "Alt", "R")),
		readonly(hk(act(ActionMiscForceQuit), "Ctrl", "Win", "Alt", "K")),
	}

	for i := 0; i < 10; i++ {
		digit := strconv.Itoa(i + 1)
		if i == 9 {
			digit = "0"
		}

		defaults = append(defaults,
			attached(system(hk(settings.HotkeyAction{Name: ActionStartWegApp, Index: i}, "Win", digit)), "@seelen/weg"),
			hk(settings.HotkeyAction{Name: ActionSwitchWorkspace, Index: i}, "Alt", digit),
			hk(settings.HotkeyAction{Name: ActionMoveToWorkspace, Index: i}, "Alt", "Shift", digit),
			hk(settings.HotkeyAction{Name: ActionSendToWorkspace, Index: i}, "Win", "Shift", digit),
		)
	}

	return defaults
}
