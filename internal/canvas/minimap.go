package canvas

// Minimap is a fixed linear mapping from a large bounded world region to
// a small preview rectangle.
type Minimap struct {
	WorldMin Point
	WorldMax Point
	Width    float64
	Height   float64
}

// DefaultMinimap covers the region users realistically work in
func DefaultMinimap() Minimap {
	return Minimap{
		WorldMin: Point{X: -2000, Y: -2000},
		WorldMax: Point{X: 4000, Y: 4000},
		Width:    160,
		Height:   120,
	}
}

// Project maps a world point into preview coordinates. Points outside the
// bounded region project outside the preview; callers clip when drawing.
func (m Minimap) Project(world Point) Point {
	spanX := m.WorldMax.X - m.WorldMin.X
	spanY := m.WorldMax.Y - m.WorldMin.Y
	return Point{
		X: (world.X - m.WorldMin.X) / spanX * m.Width,
		Y: (world.Y - m.WorldMin.Y) / spanY * m.Height,
	}
}
