package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/winhandle"
	"seelencore/pkg/rect"
)

// TestComputeRectsHorizontalLeafVertical mirrors the scenario:
// Horizontal[Leaf, Vertical[Leaf, Leaf]] with growth [1,1] and [1,1],
// outer (0,0,1000,1000); adding h1, h2, h3 in order yields
// h1=(0,0,500,1000), h2=(500,0,1000,500), h3=(500,500,1000,1000).
func TestComputeRectsHorizontalLeafVertical(t *testing.T) {
	tree := NewTree(Spec{
		Kind:       Horizontal,
		Priority:   1,
		GrowFactor: 1,
		Children: []Spec{
			{Kind: Leaf, Priority: 1, GrowFactor: 1},
			{
				Kind:       Vertical,
				Priority:   2,
				GrowFactor: 1,
				Children: []Spec{
					{Kind: Leaf, Priority: 1, GrowFactor: 1},
					{Kind: Leaf, Priority: 2, GrowFactor: 1},
				},
			},
		},
	})

	h1, h2, h3 := winhandle.WindowHandle(1), winhandle.WindowHandle(2), winhandle.WindowHandle(3)
	require.NoError(t, tree.Add(h1))
	require.NoError(t, tree.Add(h2))
	require.NoError(t, tree.Add(h3))

	rects := tree.ComputeRects(rect.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000})

	require.Equal(t, rect.Rect{Left: 0, Top: 0, Right: 500, Bottom: 1000}, rects[h1])
	require.Equal(t, rect.Rect{Left: 500, Top: 0, Right: 1000, Bottom: 500}, rects[h2])
	require.Equal(t, rect.Rect{Left: 500, Top: 500, Right: 1000, Bottom: 1000}, rects[h3])
}

func TestAddRefusesDuplicateHandle(t *testing.T) {
	tree := NewTree(DefaultSpec())
	h := winhandle.WindowHandle(1)
	require.NoError(t, tree.Add(h))
	require.NoError(t, tree.Add(h))
	require.True(t, tree.Contains(h))

	n := tree.Node(tree.Root())
	require.Len(t, n.Handles, 1)
}

func TestRemoveDropsHandleAndPicksNewActive(t *testing.T) {
	tree := NewTree(DefaultSpec())
	h1, h2 := winhandle.WindowHandle(1), winhandle.WindowHandle(2)
	require.NoError(t, tree.Add(h1))
	require.NoError(t, tree.Add(h2))

	tree.Remove(h2)

	require.False(t, tree.Contains(h2))
	n := tree.Node(tree.Root())
	require.Equal(t, h1, n.Active)
}

func TestSwapExchangesPositionsAcrossLeaves(t *testing.T) {
	tree := NewTree(Spec{
		Kind:       Vertical,
		GrowFactor: 1,
		Children: []Spec{
			{Kind: Leaf, Priority: 1, GrowFactor: 1},
			{Kind: Leaf, Priority: 2, GrowFactor: 1},
		},
	})
	root := tree.Root()
	children := tree.Node(root).Children
	h1, h2 := winhandle.WindowHandle(1), winhandle.WindowHandle(2)
	require.NoError(t, tree.Add(h1))
	require.NoError(t, tree.Add(h2))

	tree.Swap(h1, h2)

	require.Equal(t, h2, tree.Node(children[0]).Face)
	require.Equal(t, h1, tree.Node(children[1]).Face)
}

func TestConditionGatesParticipation(t *testing.T) {
	tree := NewTree(Spec{
		Kind:       Vertical,
		GrowFactor: 1,
		Children: []Spec{
			{Kind: Fallback, Priority: 1, GrowFactor: 1},
			{Kind: Fallback, Priority: 2, GrowFactor: 1, Condition: "n >= 3"},
		},
	})

	rects := tree.ComputeRects(rect.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000})
	require.Empty(t, rects)

	h1, h2 := winhandle.WindowHandle(1), winhandle.WindowHandle(2)
	require.NoError(t, tree.Add(h1))
	require.NoError(t, tree.Add(h2))

	rects = tree.ComputeRects(rect.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000})
	got, ok := rects[h1]
	require.True(t, ok)
	require.Equal(t, int32(1000), got.Bottom-got.Top)
}

func TestNodeOfFindsFallbackMember(t *testing.T) {
	tree := NewTree(DefaultSpec())
	h1, h2 := winhandle.WindowHandle(1), winhandle.WindowHandle(2)
	require.NoError(t, tree.Add(h1))
	require.NoError(t, tree.Add(h2))

	id, ok := tree.NodeOf(h1)
	require.True(t, ok)
	require.Equal(t, tree.Root(), id)

	_, ok = tree.NodeOf(winhandle.WindowHandle(99))
	require.False(t, ok)
}

func TestCycleStackActiveWrapsAround(t *testing.T) {
	tree := NewTree(Spec{Kind: Stack, Priority: 1, GrowFactor: 1})
	root := tree.Root()
	n := tree.nodes[root]
	h1, h2, h3 := winhandle.WindowHandle(1), winhandle.WindowHandle(2), winhandle.WindowHandle(3)
	n.Handles = []winhandle.WindowHandle{h1, h2, h3}
	n.Active = h1

	next, ok := tree.CycleStackActive(root, true)
	require.True(t, ok)
	require.Equal(t, h2, next)

	next, ok = tree.CycleStackActive(root, true)
	require.True(t, ok)
	require.Equal(t, h3, next)

	next, ok = tree.CycleStackActive(root, true)
	require.True(t, ok)
	require.Equal(t, h1, next, "cycling forward from the last member wraps to the first")

	next, ok = tree.CycleStackActive(root, false)
	require.True(t, ok)
	require.Equal(t, h3, next, "cycling backward from the first member wraps to the last")
}

func TestCycleStackActiveRejectsNonStackOrSingleton(t *testing.T) {
	tree := NewTree(DefaultSpec())
	h1 := winhandle.WindowHandle(1)
	require.NoError(t, tree.Add(h1))

	_, ok := tree.CycleStackActive(tree.Root(), true)
	require.False(t, ok, "Fallback is not Stack, and a single member has nothing to cycle to")
}
