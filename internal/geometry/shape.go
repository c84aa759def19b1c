package geometry

import "math"

// ShapeForm distinguishes the supported base footprints.
type ShapeForm string

const (
	FormCircular    ShapeForm = "circular"
	FormRectangular ShapeForm = "rectangular"
	FormOval        ShapeForm = "oval"
)

// Shape is a model's base footprint: a circle described by its diameter,
// or a rectangle/oval described by length and width. Rotation is in
// degrees around the center.
type Shape struct {
	Form     ShapeForm `json:"form" yaml:"form"`
	Diameter float64   `json:"diameter,omitempty" yaml:"diameter,omitempty"`
	Length   float64   `json:"length,omitempty" yaml:"length,omitempty"`
	Width    float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Rotation float64   `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// defaultPerimeterSamples controls how many perimeter points are used
// for sight sampling on non-circular bases.
const defaultPerimeterSamples = 8

// SamplePoints returns candidate sight points for a base centered at
// center: always the center itself, and for rectangular and oval bases
// also the corners and a density-controlled ring of perimeter points.
// Sight succeeds if any attacker point sees any target point, which is
// how "any part of the model" is approximated without tracing volumes.
func (s *Shape) SamplePoints(center Point, density int) []Point {
	if density <= 0 {
		density = defaultPerimeterSamples
	}
	points := []Point{center}
	if s == nil {
		return points
	}

	switch s.Form {
	case FormRectangular:
		halfL, halfW := s.Length/2, s.Width/2
		points = append(points,
			s.rotate(center, Point{X: center.X - halfL, Y: center.Y - halfW}),
			s.rotate(center, Point{X: center.X + halfL, Y: center.Y - halfW}),
			s.rotate(center, Point{X: center.X + halfL, Y: center.Y + halfW}),
			s.rotate(center, Point{X: center.X - halfL, Y: center.Y + halfW}),
		)
		points = append(points, s.perimeterRing(center, halfL, halfW, density)...)
	case FormOval:
		halfL, halfW := s.Length/2, s.Width/2
		points = append(points, s.perimeterRing(center, halfL, halfW, density)...)
	default:
		// Circular bases are rotation invariant; the center suffices for
		// the segment tests because terrain features dwarf base radii.
	}
	return points
}

// perimeterRing places density points on an ellipse with the given semi
// axes, honoring the shape's rotation.
func (s *Shape) perimeterRing(center Point, halfL, halfW float64, density int) []Point {
	ring := make([]Point, 0, density)
	for i := 0; i < density; i++ {
		angle := 2 * math.Pi * float64(i) / float64(density)
		p := Point{
			X: center.X + halfL*math.Cos(angle),
			Y: center.Y + halfW*math.Sin(angle),
		}
		ring = append(ring, s.rotate(center, p))
	}
	return ring
}

// rotate turns p around pivot by the shape's rotation.
func (s *Shape) rotate(pivot, p Point) Point {
	if s.Rotation == 0 {
		return p
	}
	rad := s.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}
