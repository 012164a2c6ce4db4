// Package canvas maps between screen space and the unbounded world space
// nodes live in, given the current pan offset and zoom factor.
package canvas

// Point is a coordinate pair in either screen or world space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale bounds for the zoom factor
const (
	MinScale = 0.2
	MaxScale = 3.0
)

// Transform holds the pan offset in screen pixels and the zoom factor.
// Scale is always within [MinScale, MaxScale], so divisions are stable.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// NewTransform returns the identity transform
func NewTransform() Transform {
	return Transform{X: 0, Y: 0, Scale: 1}
}

// ClampScale bounds a zoom factor into the valid range
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// ToWorld converts a screen point to world space
func (t Transform) ToWorld(p Point) Point {
	return Point{
		X: (p.X - t.X) / t.Scale,
		Y: (p.Y - t.Y) / t.Scale,
	}
}

// ToScreen converts a world point to screen space
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.X,
		Y: p.Y*t.Scale + t.Y,
	}
}

// PanBy translates the pan offset by a screen-space delta
func (t Transform) PanBy(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ZoomBy adjusts the scale by a delta, clamped, anchored at the current
// pan offset (zoom-to-viewport-origin, not cursor-centered)
func (t Transform) ZoomBy(delta float64) Transform {
	t.Scale = ClampScale(t.Scale + delta)
	return t
}

// WithScale replaces the scale, clamped
func (t Transform) WithScale(s float64) Transform {
	t.Scale = ClampScale(s)
	return t
}

// ViewportCenter returns the world point currently at the center of a
// viewport with the given pixel dimensions. Used to place new nodes.
func (t Transform) ViewportCenter(width, height float64) Point {
	return t.ToWorld(Point{X: width / 2, Y: height / 2})
}
