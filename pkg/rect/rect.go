// Package rect provides the device-pixel rectangle type shared by every
// component that reasons about window or monitor geometry (C5 layout, C6
// positioning, C7 bar geometry), plus the interpolation and partition
// helpers they all need.
package rect

// Rect is a device-pixel rectangle with origin at the virtual screen's
// top-left corner, per the data model.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Width returns Right-Left. May be negative for a malformed rect; callers
// that partition space should check Valid first.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Valid reports whether the rect has non-negative extent.
func (r Rect) Valid() bool { return r.Width() >= 0 && r.Height() >= 0 }

// Centre returns the rect's integer centre point.
func (r Rect) Centre() (x, y int32) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// Equal reports exact equality (no tolerance — the core never compares
// rects approximately; see P2/B1).
func (r Rect) Equal(o Rect) bool {
	return r.Left == o.Left && r.Top == o.Top && r.Right == o.Right && r.Bottom == o.Bottom
}

// Intersects reports whether r and o overlap on a non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Contains reports whether point (x,y) is inside r (right/bottom exclusive,
// matching Win32 RECT semantics).
func (r Rect) Contains(x, y int32) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// ChebyshevCentreDistance is the nearest-peer metric used by drag-to-sort
// (§4.5, Open Question 2): max of the absolute per-axis centre deltas.
func ChebyshevCentreDistance(a, b Rect) int32 {
	ax, ay := a.Centre()
	bx, by := b.Centre()
	dx := abs32(ax - bx)
	dy := abs32(ay - by)
	if dx > dy {
		return dx
	}
	return dy
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Lerp interpolates linearly between from and to at progress ∈ [0,1],
// rounding each axis independently to the nearest integer pixel. Easing
// functions call this after transforming progress; see internal/positioning.
func Lerp(from, to Rect, progress float64) Rect {
	return Rect{
		Left:   lerpAxis(from.Left, to.Left, progress),
		Top:    lerpAxis(from.Top, to.Top, progress),
		Right:  lerpAxis(from.Right, to.Right, progress),
		Bottom: lerpAxis(from.Bottom, to.Bottom, progress),
	}
}

func lerpAxis(from, to int32, progress float64) int32 {
	return from + int32(float64(to-from)*progress+sign(float64(to-from))*0.5)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// PartitionWeights splits `extent` pixels among len(weights) children
// proportional to weights, in positive-weight order, with the last
// (non-skipped) child absorbing the rounding remainder so the partition is
// exact (P2). skip[i]==true removes that child from the partition entirely
// (its span is 0); weights for skipped children are ignored.
func PartitionWeights(extent int32, weights []float64, skip []bool) []int32 {
	spans := make([]int32, len(weights))
	if extent <= 0 || len(weights) == 0 {
		return spans
	}

	total := 0.0
	lastActive := -1
	for i, w := range weights {
		if skip != nil && skip[i] {
			continue
		}
		total += w
		lastActive = i
	}
	if lastActive == -1 || total <= 0 {
		return spans
	}

	var used int32
	for i, w := range weights {
		if skip != nil && skip[i] {
			continue
		}
		if i == lastActive {
			spans[i] = extent - used
			continue
		}
		span := int32(float64(extent) * w / total)
		spans[i] = span
		used += span
	}
	return spans
}
