package wallpaper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/settings"
)

func snapWithCollections(cols ...settings.WallpaperCollection) *settings.Snapshot {
	return &settings.Snapshot{WallpaperCollections: cols}
}

func TestNextAdvancesSequentially(t *testing.T) {
	m := New()
	col := settings.WallpaperCollection{ID: "c1", Items: []string{"a", "b", "c"}}

	m.mu.Lock()
	m.indices["c1"] = 0
	m.mu.Unlock()

	snap := snapWithCollections(col)
	snap.WallpaperGlobalDefault = "c1"

	m.advanceCollection(snap, "c1", 1)
	require.Equal(t, 1, m.indices["c1"])

	m.advanceCollection(snap, "c1", 1)
	m.advanceCollection(snap, "c1", 1)
	require.Equal(t, 0, m.indices["c1"], "wraps around after the last item")
}

func TestPreviousWrapsBackward(t *testing.T) {
	m := New()
	col := settings.WallpaperCollection{ID: "c1", Items: []string{"a", "b", "c"}}

	m.advanceCollection(snapWithCollections(col), "c1", -1)
	require.Equal(t, 2, m.indices["c1"], "stepping back from 0 wraps to the last index")
}

func TestRandomiseRequiresAtLeastThreeItems(t *testing.T) {
	m := New()
	col := settings.WallpaperCollection{ID: "c1", Items: []string{"a", "b"}, Randomise: true}

	m.advanceCollection(snapWithCollections(col), "c1", 1)
	require.Equal(t, 1, m.indices["c1"], "falls back to sequential with only 2 items")
}

func TestRandomiseNeverPicksCurrentIndex(t *testing.T) {
	m := New()
	col := settings.WallpaperCollection{ID: "c1", Items: []string{"a", "b", "c"}, Randomise: true}
	snap := snapWithCollections(col)

	for i := 0; i < 20; i++ {
		before := m.indices["c1"]
		m.advanceCollection(snap, "c1", 1)
		require.NotEqual(t, before, m.indices["c1"])
	}
}

func TestResolveCollectionIDFallsBackToGlobalDefault(t *testing.T) {
	snap := &settings.Snapshot{
		WallpaperGlobalDefault: "c1",
		WallpaperCollections: []settings.WallpaperCollection{
			{ID: "c1", Items: []string{"a", "b"}},
		},
	}

	col, ok := findCollection(snap, "c1")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, col.Items)

	id, ok := resolveCollectionID(snap, "mon1", "work")
	require.True(t, ok)
	require.Equal(t, "c1", id)
}

func TestResolveCollectionIDPriorityChain(t *testing.T) {
	snap := &settings.Snapshot{
		WallpaperGlobalDefault: "global",
		Monitors: []settings.MonitorSettings{
			{
				MonitorID:             "mon1",
				WallpaperCollectionID: "monitor-default",
				Workspaces: []settings.MonitorWorkspaceDef{
					{Name: "work", WallpaperCollectionID: "workspace-override"},
					{Name: "play"},
				},
			},
		},
	}

	id, ok := resolveCollectionID(snap, "mon1", "work")
	require.True(t, ok)
	require.Equal(t, "workspace-override", id)

	id, ok = resolveCollectionID(snap, "mon1", "play")
	require.True(t, ok)
	require.Equal(t, "monitor-default", id)

	id, ok = resolveCollectionID(snap, "mon2", "anything")
	require.True(t, ok)
	require.Equal(t, "global", id)
}

func TestWorkspacePinBypassesCollection(t *testing.T) {
	snap := &settings.Snapshot{
		Monitors: []settings.MonitorSettings{
			{
				MonitorID: "mon1",
				Workspaces: []settings.MonitorWorkspaceDef{
					{Name: "work", WallpaperID: "pinned.jpg"},
				},
			},
		},
	}

	id, ok := workspacePin(snap, "mon1", "work")
	require.True(t, ok)
	require.Equal(t, "pinned.jpg", id)
}

func TestActiveCollectionIDsCollectsAllReferences(t *testing.T) {
	snap := &settings.Snapshot{
		WallpaperGlobalDefault: "global",
		Monitors: []settings.MonitorSettings{
			{
				MonitorID:             "mon1",
				WallpaperCollectionID: "mon-default",
				Workspaces: []settings.MonitorWorkspaceDef{
					{Name: "work", WallpaperCollectionID: "ws-override"},
				},
			},
		},
	}

	ids := activeCollectionIDs(snap)
	require.Len(t, ids, 3)
	require.Contains(t, ids, "global")
	require.Contains(t, ids, "mon-default")
	require.Contains(t, ids, "ws-override")
}
