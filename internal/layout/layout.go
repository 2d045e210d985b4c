// Package layout implements C5, the Tiling Layout Engine: a per-workspace
// mutable tree of layout nodes that produces per-handle target rectangles.
// Grounded on original_source/lib/src/state/wm_layout.rs's node taxonomy
// (Leaf/Stack/Vertical/Horizontal, later extended there with Fallback) and
// original_source/src/background/seelen_wm_v2/node_impl.rs's recursive
// add/remove/contains walk — reworked here as arena-indexed nodes (§9's
// re-architecture note: no parent back-references, so the tree survives
// plain struct copies and needs no Drop/cycle bookkeeping).
package layout

import (
	"regexp"
	"strconv"
	"sync"

	"seelencore/internal/errs"
	"seelencore/internal/winhandle"
	"seelencore/pkg/rect"
)

// Kind selects a node's placement and rendering behaviour.
type Kind int

const (
	Leaf Kind = iota
	Stack
	Vertical
	Horizontal
	// Fallback is not in the distilled node taxonomy; it is the
	// catch-all bucket the original source added for windows that match
	// no explicit leaf (wm_layout.rs's WmFallbackNode). The core's
	// default single-node tree for a freshly created workspace is one.
	Fallback
)

// Lifetime controls whether an empty node is pruned from the tree.
type Lifetime int

const (
	Permanent Lifetime = iota
	Temporal
)

// NodeID indexes into a Tree's arena. Real ids start at 0 (the root built
// by NewTree); NoNode is -1, outside that range, and marks "no node".
type NodeID int32

const NoNode NodeID = -1

// Node is one arena-stored entry. Only the fields relevant to Kind are
// meaningful; the others are zero.
type Node struct {
	Kind       Kind
	Priority   uint32
	Lifetime   Lifetime
	Condition  string
	GrowFactor float64
	MaxSize    int // Stack only; 0 = unlimited

	Face    winhandle.WindowHandle   // Leaf
	Handles []winhandle.WindowHandle // Stack, Fallback
	Active  winhandle.WindowHandle   // Stack, Fallback

	Children []NodeID // Vertical, Horizontal
}

func (n *Node) isEmpty() bool {
	switch n.Kind {
	case Leaf:
		return n.Face == winhandle.Zero
	case Stack, Fallback:
		return len(n.Handles) == 0
	default:
		return false
	}
}

func (n *Node) isFull() bool {
	switch n.Kind {
	case Leaf:
		return n.Face != winhandle.Zero
	case Stack:
		return n.MaxSize > 0 && len(n.Handles) >= n.MaxSize
	case Fallback:
		return false
	default:
		return false
	}
}

// Spec is the declarative, serialisable description of a node used to
// build a Tree — the YAML/JSON counterpart of the original Rust
// WmNode enum, flattened into the arena by NewTree.
type Spec struct {
	Kind       Kind
	Priority   uint32
	Lifetime   Lifetime
	Condition  string
	GrowFactor float64
	MaxSize    int
	Children   []Spec
}

// DefaultSpec is the layout a freshly created workspace starts with: a
// single unlimited Fallback node occupying the whole tiling area, mirroring
// wm_layout.rs's WindowManagerLayout::default().
func DefaultSpec() Spec {
	return Spec{Kind: Fallback, Priority: 1, GrowFactor: 1}
}

// Tree is one workspace's mutable layout. All methods are safe for
// concurrent use.
type Tree struct {
	mu    sync.Mutex
	nodes map[NodeID]*Node
	next  NodeID
	root  NodeID
}

// NewTree builds an arena from spec and returns a Tree rooted at it.
func NewTree(spec Spec) *Tree {
	t := &Tree{nodes: make(map[NodeID]*Node)}
	t.root = t.build(spec)
	return t
}

func (t *Tree) build(spec Spec) NodeID {
	id := t.next
	t.next++
	n := &Node{
		Kind:       spec.Kind,
		Priority:   spec.Priority,
		Lifetime:   spec.Lifetime,
		Condition:  spec.Condition,
		GrowFactor: spec.GrowFactor,
		MaxSize:    spec.MaxSize,
	}
	if n.GrowFactor <= 0 {
		n.GrowFactor = 1
	}
	for _, childSpec := range spec.Children {
		n.Children = append(n.Children, t.build(childSpec))
	}
	t.nodes[id] = n
	return id
}

// Root returns the tree's root node id.
func (t *Tree) Root() NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// Node returns a copy of the node at id, or nil if id is unknown.
func (t *Tree) Node(id NodeID) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	cp := *n
	cp.Handles = append([]winhandle.WindowHandle(nil), n.Handles...)
	cp.Children = append([]NodeID(nil), n.Children...)
	return &cp
}

// Add places handle in the first, lowest-priority node (depth-first, by
// ascending Priority at each branch) that has capacity and whose
// condition currently evaluates true. Returns an error if the whole tree
// is full (§8 P1's "at most once" is upheld by construction: Add always
// checks Contains first).
func (t *Tree) Add(handle winhandle.WindowHandle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.containsLocked(t.root, handle) {
		return nil
	}
	if !t.tryAdd(t.root, handle) {
		return errs.New(errs.PolicyFailure, "layout.tree_full")
	}
	return nil
}

func (t *Tree) tryAdd(id NodeID, handle winhandle.WindowHandle) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	switch n.Kind {
	case Leaf:
		if n.Face != winhandle.Zero {
			return false
		}
		n.Face = handle
		return true
	case Stack:
		// A stack accepts a window while it is below MaxSize (0 means
		// unlimited); the newly added window becomes the active one.
		if n.isFull() {
			return false
		}
		n.Handles = append(n.Handles, handle)
		n.Active = handle
		return true
	case Fallback:
		n.Handles = append(n.Handles, handle)
		n.Active = handle
		return true
	case Vertical, Horizontal:
		for _, child := range orderedByPriority(t.nodes, n.Children) {
			if !t.conditionHolds(t.nodes[child]) {
				continue
			}
			if t.tryAdd(child, handle) {
				return true
			}
		}
		return false
	}
	return false
}

func orderedByPriority(nodes map[NodeID]*Node, ids []NodeID) []NodeID {
	out := append([]NodeID(nil), ids...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && nodes[out[j-1]].Priority > nodes[out[j]].Priority; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// conditionHolds evaluates a node's Condition expression (e.g. "n >= 3")
// against the current count of windows already placed in the whole tree;
// an empty condition always holds.
func (t *Tree) conditionHolds(n *Node) bool {
	if n == nil || n.Condition == "" {
		return n != nil
	}
	return evalCondition(n.Condition, t.count(t.root))
}

var conditionPattern = regexp.MustCompile(`^\s*n\s*(>=|<=|==|>|<)\s*(\d+)\s*$`)

func evalCondition(expr string, n int) bool {
	m := conditionPattern.FindStringSubmatch(expr)
	if m == nil {
		return true
	}
	threshold, err := strconv.Atoi(m[2])
	if err != nil {
		return true
	}
	switch m[1] {
	case ">=":
		return n >= threshold
	case "<=":
		return n <= threshold
	case "==":
		return n == threshold
	case ">":
		return n > threshold
	case "<":
		return n < threshold
	}
	return true
}

func (t *Tree) count(id NodeID) int {
	n := t.nodes[id]
	if n == nil {
		return 0
	}
	switch n.Kind {
	case Leaf:
		if n.Face != winhandle.Zero {
			return 1
		}
		return 0
	case Stack, Fallback:
		return len(n.Handles)
	case Vertical, Horizontal:
		total := 0
		for _, c := range n.Children {
			total += t.count(c)
		}
		return total
	}
	return 0
}

// Remove takes handle out of whichever node holds it, pruning Temporal
// nodes that become empty as a result.
func (t *Tree) Remove(handle winhandle.WindowHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(t.root, handle)
}

func (t *Tree) remove(id NodeID, handle winhandle.WindowHandle) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	switch n.Kind {
	case Leaf:
		if n.Face == handle {
			n.Face = winhandle.Zero
		}
	case Stack, Fallback:
		n.Handles = removeHandle(n.Handles, handle)
		if n.Active == handle {
			n.Active = winhandle.Zero
			if len(n.Handles) > 0 {
				n.Active = n.Handles[len(n.Handles)-1]
			}
		}
	case Vertical, Horizontal:
		for _, c := range n.Children {
			t.remove(c, handle)
		}
		t.pruneEmptyTemporal(n)
	}
}

func (t *Tree) pruneEmptyTemporal(parent *Node) {
	kept := parent.Children[:0]
	for _, c := range parent.Children {
		child := t.nodes[c]
		if child != nil && child.Lifetime == Temporal && child.isEmpty() && len(child.Children) == 0 {
			delete(t.nodes, c)
			continue
		}
		kept = append(kept, c)
	}
	parent.Children = kept
}

func removeHandle(handles []winhandle.WindowHandle, h winhandle.WindowHandle) []winhandle.WindowHandle {
	out := handles[:0]
	for _, e := range handles {
		if e != h {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether handle is currently placed anywhere in the
// tree.
func (t *Tree) Contains(handle winhandle.WindowHandle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.containsLocked(t.root, handle)
}

func (t *Tree) containsLocked(id NodeID, handle winhandle.WindowHandle) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	switch n.Kind {
	case Leaf:
		return n.Face == handle
	case Stack, Fallback:
		for _, h := range n.Handles {
			if h == handle {
				return true
			}
		}
		return false
	case Vertical, Horizontal:
		for _, c := range n.Children {
			if t.containsLocked(c, handle) {
				return true
			}
		}
		return false
	}
	return false
}

// NodeOf returns the id of the node currently holding handle, so a caller
// can inspect or mutate that node directly (e.g. cycling a Stack's Active
// member). ok is false if handle is not placed anywhere in the tree.
func (t *Tree) NodeOf(handle winhandle.WindowHandle) (id NodeID, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodeOf(t.root, handle)
}

func (t *Tree) nodeOf(id NodeID, handle winhandle.WindowHandle) (NodeID, bool) {
	n := t.nodes[id]
	if n == nil {
		return NoNode, false
	}
	switch n.Kind {
	case Leaf:
		if n.Face == handle {
			return id, true
		}
	case Stack, Fallback:
		for _, h := range n.Handles {
			if h == handle {
				return id, true
			}
		}
	case Vertical, Horizontal:
		for _, c := range n.Children {
			if found, ok := t.nodeOf(c, handle); ok {
				return found, true
			}
		}
	}
	return NoNode, false
}

// CycleStackActive moves id's Active member to the next (or, with
// forward=false, previous) entry in Handles, wrapping around. A no-op if id
// is not a Stack node or has fewer than two members.
func (t *Tree) CycleStackActive(id NodeID, forward bool) (winhandle.WindowHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok || n.Kind != Stack || len(n.Handles) < 2 {
		return winhandle.Zero, false
	}
	cur := -1
	for i, h := range n.Handles {
		if h == n.Active {
			cur = i
			break
		}
	}
	next := 0
	if cur >= 0 {
		if forward {
			next = (cur + 1) % len(n.Handles)
		} else {
			next = (cur - 1 + len(n.Handles)) % len(n.Handles)
		}
	}
	n.Active = n.Handles[next]
	return n.Active, true
}

// Swap exchanges a and b in place, preserving each handle's layout
// position — the primitive behind drag-to-swap (§4.5).
func (t *Tree) Swap(a, b winhandle.WindowHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.swap(t.root, a, b)
}

func (t *Tree) swap(id NodeID, a, b winhandle.WindowHandle) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	switch n.Kind {
	case Leaf:
		if n.Face == a {
			n.Face = b
		} else if n.Face == b {
			n.Face = a
		}
	case Stack, Fallback:
		for i, h := range n.Handles {
			if h == a {
				n.Handles[i] = b
			} else if h == b {
				n.Handles[i] = a
			}
		}
		if n.Active == a {
			n.Active = b
		} else if n.Active == b {
			n.Active = a
		}
	case Vertical, Horizontal:
		for _, c := range n.Children {
			t.swap(c, a, b)
		}
	}
}

// UpdateGrowFactor sets id's growth weight for its parent splitter's
// next ComputeRects pass — the primitive behind interactive resize.
func (t *Tree) UpdateGrowFactor(id NodeID, factor float64) {
	if factor <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.nodes[id]; ok {
		n.GrowFactor = factor
	}
}

// ComputeRects is a pure function: it partitions outer proportionally to
// grow factors at each splitter, skipping children whose condition is
// false, and returns the resulting rect for every placed handle. The last
// participating child at each splitter absorbs the rounding remainder so
// the partition's union equals outer exactly (§8 P2).
func (t *Tree) ComputeRects(outer rect.Rect) map[winhandle.WindowHandle]rect.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[winhandle.WindowHandle]rect.Rect)
	t.computeRects(t.root, outer, out)
	return out
}

func (t *Tree) computeRects(id NodeID, outer rect.Rect, out map[winhandle.WindowHandle]rect.Rect) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	switch n.Kind {
	case Leaf:
		if n.Face != winhandle.Zero {
			out[n.Face] = outer
		}
	case Stack, Fallback:
		for _, h := range n.Handles {
			out[h] = outer
		}
	case Vertical:
		t.splitAndRecurse(n.Children, outer, true, out)
	case Horizontal:
		t.splitAndRecurse(n.Children, outer, false, out)
	}
}

// splitAndRecurse partitions outer's height (vertical) or width
// (horizontal) across the children that currently satisfy their
// condition, using each one's GrowFactor as its weight, then recurses
// into each with its slice of outer.
func (t *Tree) splitAndRecurse(children []NodeID, outer rect.Rect, vertical bool, out map[winhandle.WindowHandle]rect.Rect) {
	participating := make([]NodeID, 0, len(children))
	weights := make([]float64, 0, len(children))
	skip := make([]bool, 0, len(children))
	for _, c := range children {
		child := t.nodes[c]
		if child == nil || !t.conditionHolds(child) {
			continue
		}
		participating = append(participating, c)
		weights = append(weights, child.GrowFactor)
		// A leaf with no face (or an empty stack/fallback) collapses for
		// this pass per §4.5: its weight drops out of the split and the
		// remaining siblings' factors are renormalised over the freed
		// extent, rather than it claiming a zero-content share.
		skip = append(skip, child.isEmpty())
	}
	if len(participating) == 0 {
		return
	}

	extent := outer.Height()
	if !vertical {
		extent = outer.Width()
	}
	sizes := rect.PartitionWeights(extent, weights, skip)

	cursor := int32(0)
	if vertical {
		cursor = outer.Top
	} else {
		cursor = outer.Left
	}
	for i, c := range participating {
		size := sizes[i]
		var slice rect.Rect
		if vertical {
			slice = rect.Rect{Left: outer.Left, Right: outer.Right, Top: cursor, Bottom: cursor + size}
		} else {
			slice = rect.Rect{Top: outer.Top, Bottom: outer.Bottom, Left: cursor, Right: cursor + size}
		}
		cursor += size
		t.computeRects(c, slice, out)
	}
}
