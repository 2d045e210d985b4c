package shortcuts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/settings"
)

func TestActionToCommandMapsWorkspaceActions(t *testing.T) {
	cmd, ok := actionToCommand(settings.HotkeyAction{Name: ActionSwitchWorkspace, Index: 3})
	require.True(t, ok)
	require.Equal(t, Command{"vd", []string{"switch-workspace", "3"}}, cmd)

	cmd, ok = actionToCommand(settings.HotkeyAction{Name: ActionSwitchToNextWorkspace})
	require.True(t, ok)
	require.Equal(t, Command{"vd", []string{"switch-next"}}, cmd)
}

func TestActionToCommandTaskSwitcherAppendsAutoConfirmFlag(t *testing.T) {
	cmd, ok := actionToCommand(settings.HotkeyAction{Name: ActionTaskNext, SelectOnKeyUp: true})
	require.True(t, ok)
	require.Equal(t, Command{"task-switcher", []string{"select-next-task", "--auto-confirm"}}, cmd)

	cmd, ok = actionToCommand(settings.HotkeyAction{Name: ActionTaskNext, SelectOnKeyUp: false})
	require.True(t, ok)
	require.Equal(t, Command{"task-switcher", []string{"select-next-task"}}, cmd)
}

func TestActionToCommandMiscForceActionsHaveNoCommand(t *testing.T) {
	_, ok := actionToCommand(settings.HotkeyAction{Name: ActionMiscForceRestart})
	require.False(t, ok)

	_, ok = actionToCommand(settings.HotkeyAction{Name: ActionMiscForceQuit})
	require.False(t, ok)
}

func TestActionToCommandWindowManagerActions(t *testing.T) {
	cmd, ok := actionToCommand(settings.HotkeyAction{Name: ActionFocusLeft})
	require.True(t, ok)
	require.Equal(t, Command{"wm", []string{"focus", "left"}}, cmd)

	cmd, ok = actionToCommand(settings.HotkeyAction{Name: ActionReserveStack})
	require.True(t, ok)
	require.Equal(t, Command{"wm", []string{"reserve", "stack"}}, cmd)
}

func TestParseKeysSplitsModifiersFromVKey(t *testing.T) {
	mods, vkey, ok := parseKeys([]string{"Ctrl", "Win", "Alt", "R"})
	require.True(t, ok)
	require.Equal(t, uint32('R'), vkey)
	require.NotZero(t, mods)
}

func TestParseKeysRejectsUnknownKeyName(t *testing.T) {
	_, _, ok := parseKeys([]string{"Win", "NotAKey"})
	require.False(t, ok)
}

func TestParseKeysRequiresANonModifierKey(t *testing.T) {
	_, _, ok := parseKeys([]string{"Ctrl", "Win"})
	require.False(t, ok)
}

func TestDefaultShortcutsIncludesPerDigitWegAndWorkspaceBindings(t *testing.T) {
	defaults := DefaultShortcuts()

	var wegCount, switchCount int
	for _, hk := range defaults {
		switch hk.Action.Name {
		case ActionStartWegApp:
			wegCount++
		case ActionSwitchWorkspace:
			switchCount++
		}
	}
	require.Equal(t, 10, wegCount)
	require.Equal(t, 10, switchCount)
}

func TestDefaultShortcutsForceActionsAreReadonly(t *testing.T) {
	defaults := DefaultShortcuts()
	for _, hk := range defaults {
		if hk.Action.Name == ActionMiscForceRestart || hk.Action.Name == ActionMiscForceQuit {
			require.True(t, hk.Readonly, "misc force actions must not be user-rebindable")
		}
	}
}

func TestSanitizeBackfillsMissingDefaultsWithoutDuplicating(t *testing.T) {
	snap := &settings.Snapshot{
		Shortcuts: []settings.HotkeyDef{
			{ID: "custom-1", Action: settings.HotkeyAction{Name: ActionPauseTiling}, Keys: []string{"Win", "P"}},
		},
	}

	Sanitize(snap)

	var pauseCount int
	var sawCustom bool
	for _, hk := range snap.Shortcuts {
		if hk.Action.Name == ActionPauseTiling {
			pauseCount++
		}
		if hk.ID == "custom-1" {
			sawCustom = true
		}
	}
	require.Equal(t, 1, pauseCount, "existing user binding for an action already present must not be duplicated")
	require.True(t, sawCustom)
	require.Greater(t, len(snap.Shortcuts), 1, "missing defaults must be backfilled")
}

func TestSanitizeDropsDuplicateIDsAndEmptyKeys(t *testing.T) {
	snap := &settings.Snapshot{
		Shortcuts: []settings.HotkeyDef{
			{ID: "dup", Action: settings.HotkeyAction{Name: ActionToggleFloat}, Keys: []string{"Win", "F"}},
			{ID: "dup", Action: settings.HotkeyAction{Name: ActionToggleMonocle}, Keys: []string{"Win", "M"}},
			{ID: "empty-keys", Action: settings.HotkeyAction{Name: ActionPauseTiling}, Keys: nil},
		},
	}

	Sanitize(snap)

	var dupCount int
	for _, hk := range snap.Shortcuts {
		if hk.ID == "dup" {
			dupCount++
		}
		require.NotEmpty(t, hk.Keys)
	}
	require.Equal(t, 1, dupCount)
}

func TestRegisterAllWithSkipsHotkeysAttachedToDisabledWidgets(t *testing.T) {
	d := New(nil, nil)
	snap := &settings.Snapshot{
		ShortcutsEnabled: true,
		WidgetsEnabled:   map[string]bool{"@seelen/weg": false},
		Shortcuts: []settings.HotkeyDef{
			{ID: "a", Action: settings.HotkeyAction{Name: ActionToggleFloat}, Keys: []string{"Win", "F"}, AttachedTo: "@seelen/weg"},
		},
	}

	d.registerAllWith(snap)
	require.Empty(t, d.byID, "RegisterHotKey is a no-op on non-Windows, so nothing should ever be registered in this test binary regardless")
}

func TestRegisterAllWithSkipsEverythingWhenShortcutsDisabled(t *testing.T) {
	d := New(nil, nil)
	snap := &settings.Snapshot{
		ShortcutsEnabled: false,
		Shortcuts: []settings.HotkeyDef{
			{ID: "a", Action: settings.HotkeyAction{Name: ActionToggleFloat}, Keys: []string{"Win", "F"}},
		},
	}

	d.registerAllWith(snap)
	require.Empty(t, d.byID)
}
