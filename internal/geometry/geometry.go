// Package geometry implements the visibility and cover subsystem: line
// of sight between model bases and terrain-derived benefit of cover.
// All distances are in inches on the battlefield plane.
package geometry

import "math"

const epsilon = 1e-9

// Point is a position on the battlefield plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the straight-line distance to other.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Polygon is a closed footprint described by its vertices in order.
type Polygon []Point

// IsDegenerate reports whether the polygon cannot enclose any area:
// fewer than three vertices, or zero total area. Degenerate polygons
// never block sight and never grant cover.
func (poly Polygon) IsDegenerate() bool {
	if len(poly) < 3 {
		return true
	}
	return math.Abs(poly.area()) < epsilon
}

// area returns the signed shoelace area.
func (poly Polygon) area() float64 {
	sum := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return sum / 2
}

// Contains reports whether p lies inside the polygon, using the ray
// casting rule. Points exactly on an edge count as inside.
func (poly Polygon) Contains(p Point) bool {
	if poly.IsDegenerate() {
		return false
	}
	inside := false
	for i := range poly {
		j := (i + 1) % len(poly)
		a, b := poly[i], poly[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// IntersectsSegment reports whether the segment from a to b crosses any
// edge of the polygon or passes through its interior.
func (poly Polygon) IntersectsSegment(a, b Point) bool {
	if poly.IsDegenerate() {
		return false
	}
	for i := range poly {
		j := (i + 1) % len(poly)
		if segmentsIntersect(a, b, poly[i], poly[j]) {
			return true
		}
	}
	// Fully interior segment: no edge crossing but both endpoints inside.
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return poly.Contains(mid)
}

// segmentsIntersect reports whether segments p1p2 and p3p4 intersect,
// including collinear overlap and shared endpoints.
func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon)) &&
		((d3 > epsilon && d4 < -epsilon) || (d3 < -epsilon && d4 > epsilon)) {
		return true
	}
	if math.Abs(d1) <= epsilon && onSegment(p1, p3, p4) {
		return true
	}
	if math.Abs(d2) <= epsilon && onSegment(p2, p3, p4) {
		return true
	}
	if math.Abs(d3) <= epsilon && onSegment(p3, p1, p2) {
		return true
	}
	if math.Abs(d4) <= epsilon && onSegment(p4, p1, p2) {
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (p-a).
func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment reports whether p lies on the segment ab, assuming the three
// points are (near) collinear.
func onSegment(p, a, b Point) bool {
	if math.Abs(cross(a, b, p)) > epsilon {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-epsilon && p.X <= math.Max(a.X, b.X)+epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-epsilon && p.Y <= math.Max(a.Y, b.Y)+epsilon
}
