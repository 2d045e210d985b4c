package bargeometry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/settings"
	"seelencore/pkg/rect"
	"seelencore/pkg/winapi"
)

func monitorInfo(w, h int32, scale float64) winapi.MonitorInfo {
	return winapi.MonitorInfo{
		Rect:        rect.Rect{Left: 0, Top: 0, Right: w, Bottom: h},
		WorkRect:    rect.Rect{Left: 0, Top: 0, Right: w, Bottom: h},
		ScaleFactor: scale,
	}
}

func TestComputeGeometryTopBarLeftDock(t *testing.T) {
	snap := settings.Default()
	snap.WidgetsEnabled["bar"] = true
	snap.WidgetsEnabled["dock"] = true
	snap.Bar = settings.BarSettings{Position: settings.PositionTop, Size: 30, HideMode: settings.HideNever}
	snap.Dock = settings.BarSettings{Position: settings.PositionLeft, Size: 48, HideMode: settings.HideNever}
	snap.TextScale = 1

	geo := computeGeometry(monitorInfo(1000, 800, 1), snap)

	require.Equal(t, rect.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 30}, geo.Bar)
	require.Equal(t, rect.Rect{Left: 0, Top: 30, Right: 48, Bottom: 800}, geo.Dock)
	require.Equal(t, rect.Rect{Left: 48, Top: 30, Right: 1000, Bottom: 800}, geo.Tiling)
}

func TestComputeGeometryAlwaysHiddenDockLeavesFullTiling(t *testing.T) {
	snap := settings.Default()
	snap.WidgetsEnabled["bar"] = false
	snap.WidgetsEnabled["dock"] = true
	snap.Dock = settings.BarSettings{Position: settings.PositionBottom, Size: 48, HideMode: settings.HideAlways}

	geo := computeGeometry(monitorInfo(1000, 800, 1), snap)

	require.Equal(t, rect.Rect{Left: 0, Top: 752, Right: 1000, Bottom: 800}, geo.Dock)
	require.Equal(t, rect.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 800}, geo.Tiling, "HideAlways band must not claim tiling space")
}

func TestComputeGeometryAppliesScaleAndTextScale(t *testing.T) {
	snap := settings.Default()
	snap.WidgetsEnabled["bar"] = true
	snap.WidgetsEnabled["dock"] = false
	snap.Bar = settings.BarSettings{Position: settings.PositionTop, Size: 30, HideMode: settings.HideNever}
	snap.TextScale = 1.5

	geo := computeGeometry(monitorInfo(1000, 800, 2), snap)

	require.EqualValues(t, 90, geo.Bar.Height()) // 30 * 2 (monitor scale) * 1.5 (text scale)
}

func TestComputeGeometryDockOnSameEdgeAsBarIsInsetBelowIt(t *testing.T) {
	snap := settings.Default()
	snap.WidgetsEnabled["bar"] = true
	snap.WidgetsEnabled["dock"] = true
	snap.Bar = settings.BarSettings{Position: settings.PositionTop, Size: 30, HideMode: settings.HideNever}
	snap.Dock = settings.BarSettings{Position: settings.PositionTop, Size: 48, HideMode: settings.HideNever}

	geo := computeGeometry(monitorInfo(1000, 800, 1), snap)

	require.EqualValues(t, 0, geo.Bar.Top, "bar owns the true top edge")
	require.EqualValues(t, 30, geo.Dock.Top, "dock is inset below the bar, toolbar wins priority")
	require.EqualValues(t, 78, geo.Dock.Bottom)
	require.EqualValues(t, 78, geo.Tiling.Top)
}

func TestEdgeFromPosition(t *testing.T) {
	require.Equal(t, winapi.EdgeTop, edgeFromPosition(settings.PositionTop))
	require.Equal(t, winapi.EdgeBottom, edgeFromPosition(settings.PositionBottom))
	require.Equal(t, winapi.EdgeLeft, edgeFromPosition(settings.PositionLeft))
	require.Equal(t, winapi.EdgeRight, edgeFromPosition(settings.PositionRight))
}

func TestHasSeelenOverlayPrefix(t *testing.T) {
	require.True(t, hasSeelenOverlayPrefix("SeelenUI::Bar"))
	require.False(t, hasSeelenOverlayPrefix("Notepad"))
	require.False(t, hasSeelenOverlayPrefix("Se"))
}
