package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/winhandle"
)

type fakeHideShow struct {
	hidden  []winhandle.WindowHandle
	shown   []winhandle.WindowHandle
	focused []winhandle.WindowHandle
}

func (f *fakeHideShow) Hide(h winhandle.WindowHandle)  { f.hidden = append(f.hidden, h) }
func (f *fakeHideShow) Show(h winhandle.WindowHandle)  { f.shown = append(f.shown, h) }
func (f *fakeHideShow) Focus(h winhandle.WindowHandle) { f.focused = append(f.focused, h) }

func TestSwitchToHidesNonPinnedAndShowsTarget(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	require.NoError(t, m.SendTo(monitor, 1, first))
	require.NoError(t, m.SendTo(monitor, 2, second))

	hs.hidden, hs.shown = nil, nil
	require.NoError(t, m.SwitchTo(monitor, second))

	require.Contains(t, hs.hidden, winhandle.WindowHandle(1))
	require.Contains(t, hs.shown, winhandle.WindowHandle(2))
}

func TestSwitchToFocusesLastRestoredWindow(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	require.NoError(t, m.SendTo(monitor, 1, first))
	require.NoError(t, m.SendTo(monitor, 2, second))
	require.NoError(t, m.SendTo(monitor, 3, second))

	hs.focused = nil
	require.NoError(t, m.SwitchTo(monitor, second))

	require.Equal(t, []winhandle.WindowHandle{3}, hs.focused,
		"focus should land on the last restored window, not every shown window")
}

func TestSwitchToDoesNotFocusWhenTargetHasNoWindows(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	m.EnsureMonitor(monitor, "primary")
	empty, err := m.CreateWorkspace(monitor, "empty")
	require.NoError(t, err)

	hs.focused = nil
	require.NoError(t, m.SwitchTo(monitor, empty))

	require.Empty(t, hs.focused)
}

func TestPinnedWindowSurvivesSwitch(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	require.NoError(t, m.SendTo(monitor, 1, first))
	m.Pin(monitor, 1)

	hs.hidden = nil
	require.NoError(t, m.SwitchTo(monitor, second))

	require.NotContains(t, hs.hidden, winhandle.WindowHandle(1))
}

func TestDestroyWorkspaceRedistributesNonPinnedToFallback(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	require.NoError(t, m.SendTo(monitor, 1, second))
	require.NoError(t, m.SendTo(monitor, 2, second))
	m.Pin(monitor, 2)
	require.NoError(t, m.SwitchTo(monitor, second))

	require.NoError(t, m.DestroyWorkspace(monitor, second))

	fallbackID, ok := m.WorkspaceOf(monitor, 1)
	require.True(t, ok)
	require.Equal(t, first, fallbackID)

	_, stillTracked := m.WorkspaceOf(monitor, 2)
	require.False(t, stillTracked)
}

func TestCannotDestroyLastWorkspace(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	only := m.EnsureMonitor(monitor, "primary")

	err := m.DestroyWorkspace(monitor, only)
	require.Error(t, err)
}

func TestMoveToMonitorRelocatesAndShowsOnActiveTarget(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	src, dst := "mon-1", "mon-2"
	srcWs := m.EnsureMonitor(src, "primary")
	dstWs := m.EnsureMonitor(dst, "primary")
	require.NoError(t, m.SendTo(src, 1, srcWs))

	hs.hidden, hs.shown = nil, nil
	require.NoError(t, m.MoveToMonitor(src, 1, dst, dstWs))

	require.Contains(t, hs.shown, winhandle.WindowHandle(1))
	_, stillOnSrc := m.WorkspaceOf(src, 1)
	require.False(t, stillOnSrc)
	gotWs, ok := m.WorkspaceOf(dst, 1)
	require.True(t, ok)
	require.Equal(t, dstWs, gotWs)
}

func TestRemoveMonitorMigratesWindowsToFallbackActiveWorkspace(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	removed, fallback := "mon-1", "mon-2"
	removedWs := m.EnsureMonitor(removed, "primary")
	fallbackWs := m.EnsureMonitor(fallback, "primary")
	require.NoError(t, m.SendTo(removed, 1, removedWs))

	hs.shown = nil
	require.NoError(t, m.RemoveMonitor(removed, fallback))

	require.Contains(t, hs.shown, winhandle.WindowHandle(1))
	require.False(t, m.MonitorKnown(removed))
	gotWs, ok := m.WorkspaceOf(fallback, 1)
	require.True(t, ok)
	require.Equal(t, fallbackWs, gotWs)
}

func TestActiveWorkspaceReportsSwitchedTarget(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	active, ok := m.ActiveWorkspace(monitor)
	require.True(t, ok)
	require.Equal(t, first, active)

	require.NoError(t, m.SwitchTo(monitor, second))
	active, ok = m.ActiveWorkspace(monitor)
	require.True(t, ok)
	require.Equal(t, second, active)

	_, ok = m.ActiveWorkspace("unknown-monitor")
	require.False(t, ok)
}

func TestWindowsAndWorkspacesSnapshots(t *testing.T) {
	hs := &fakeHideShow{}
	m := New(hs, nil)
	monitor := "mon-1"
	first := m.EnsureMonitor(monitor, "primary")
	second, err := m.CreateWorkspace(monitor, "secondary")
	require.NoError(t, err)

	require.NoError(t, m.SendTo(monitor, 1, first))
	require.NoError(t, m.SendTo(monitor, 2, first))
	require.NoError(t, m.SendTo(monitor, 3, second))

	require.ElementsMatch(t, []winhandle.WindowHandle{1, 2}, m.Windows(monitor, first))
	require.ElementsMatch(t, []winhandle.WindowHandle{3}, m.Windows(monitor, second))
	require.Empty(t, m.Windows(monitor, "no-such-workspace"))
	require.Nil(t, m.Windows("unknown-monitor", first))

	require.ElementsMatch(t, []winhandle.WorkspaceId{first, second}, m.Workspaces(monitor))
	require.Nil(t, m.Workspaces("unknown-monitor"))
}
