package navigation

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// boundaryTolerance is the distance under which a point counts as lying on a line or edge
	boundaryTolerance = 1e-7

	// maxArcStep bounds the angle covered by one segment of a rounded corner
	maxArcStep = math.Pi / 8
)

// Point is a 2D scene coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a closed obstacle outline as a list of vertices
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Ring returns the polygon as a closed orb ring
func (poly Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(poly.Vertices)+1)
	for _, v := range poly.Vertices {
		ring = append(ring, v.orb())
	}
	if len(poly.Vertices) > 0 {
		ring = append(ring, poly.Vertices[0].orb())
	}
	return ring
}

// Bound returns the axis-aligned bounding box of the polygon
func (poly Polygon) Bound() orb.Bound {
	return poly.Ring().Bound()
}

// PolygonFromRing converts an orb ring to a Polygon, dropping the closing vertex
func PolygonFromRing(ring orb.Ring) Polygon {
	n := len(ring)
	if n > 1 && ring.Closed() {
		n--
	}
	poly := Polygon{Vertices: make([]Point, 0, n)}
	for _, p := range ring[:n] {
		poly.Vertices = append(poly.Vertices, Point{X: p[0], Y: p[1]})
	}
	return poly
}

// SegmentsIntersect checks if two line segments share at least one point.
// Collinear overlapping segments and shared endpoints count as intersecting.
func SegmentsIntersect(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies within the bounding box of segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// side returns -1, 0 or 1 depending on which side of line ab the point c lies.
// Points closer than boundaryTolerance to the line count as on it.
func side(a, b, c Point) int {
	length := a.Distance(b)
	if length == 0 {
		return 0
	}
	d := ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) / length
	switch {
	case d > boundaryTolerance:
		return 1
	case d < -boundaryTolerance:
		return -1
	}
	return 0
}

// segmentsCross reports a proper crossing: each segment has endpoints strictly
// on opposite sides of the other. Touching and collinear overlap do not count.
func segmentsCross(a, b, c, d Point) bool {
	return side(a, b, c)*side(a, b, d) < 0 && side(c, d, a)*side(c, d, b) < 0
}

// projectOnto returns the parameter t in (0, 1) of p along segment ab if p lies on it
func projectOnto(a, b, p Point) (float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return 0, false
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
	if t <= 0 || t >= 1 {
		return 0, false
	}
	if side(a, b, p) != 0 {
		return 0, false
	}
	return t, true
}

// IsPointInPolygon checks if a point is inside a polygon using the even-odd rule.
// Points exactly on the boundary may land on either side; use IsPointOnBoundary to tell.
func IsPointInPolygon(point Point, polygon Polygon) bool {
	n := len(polygon.Vertices)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi := polygon.Vertices[i]
		vj := polygon.Vertices[j]

		// Ray from point towards +X
		if (vi.Y > point.Y) != (vj.Y > point.Y) {
			xCross := vj.X + (point.Y-vj.Y)*(vi.X-vj.X)/(vi.Y-vj.Y)
			if point.X < xCross {
				inside = !inside
			}
		}
	}

	return inside
}

// IsPointOnBoundary checks if a point lies on any edge of the polygon
func IsPointOnBoundary(point Point, polygon Polygon) bool {
	n := len(polygon.Vertices)
	p := point.orb()
	for i := 0; i < n; i++ {
		a := polygon.Vertices[i].orb()
		b := polygon.Vertices[(i+1)%n].orb()
		if planar.DistanceFromSegment(a, b, p) <= boundaryTolerance {
			return true
		}
	}
	return false
}

// IsPointInsidePolygon checks if a point is in the open interior of the polygon
func IsPointInsidePolygon(point Point, polygon Polygon) bool {
	return IsPointInPolygon(point, polygon) && !IsPointOnBoundary(point, polygon)
}

// normalizePolygon drops repeated vertices (including a GeoJSON style closing vertex)
// and orients the outline counter-clockwise
func normalizePolygon(polygon Polygon) (Polygon, error) {
	vertices := make([]Point, 0, len(polygon.Vertices))
	for _, v := range polygon.Vertices {
		if len(vertices) > 0 && vertices[len(vertices)-1].Distance(v) <= boundaryTolerance {
			continue
		}
		vertices = append(vertices, v)
	}
	for len(vertices) > 1 && vertices[0].Distance(vertices[len(vertices)-1]) <= boundaryTolerance {
		vertices = vertices[:len(vertices)-1]
	}
	if len(vertices) < 3 {
		return Polygon{}, ErrDegeneratePolygon
	}

	norm := Polygon{Vertices: vertices}
	ring := norm.Ring()
	if math.Abs(planar.Area(ring)) <= boundaryTolerance {
		return Polygon{}, ErrDegeneratePolygon
	}
	if ring.Orientation() == orb.CW {
		for i, j := 0, len(vertices)-1; i < j; i, j = i+1, j-1 {
			vertices[i], vertices[j] = vertices[j], vertices[i]
		}
	}
	return norm, nil
}

// outwardNormal returns the unit normal on the right of edge a->b,
// which points away from a counter-clockwise polygon
func outwardNormal(a, b Point) Point {
	length := a.Distance(b)
	return Point{X: (b.Y - a.Y) / length, Y: -(b.X - a.X) / length}
}

// BufferPolygon expands a polygon outward by radius.
//
// Edges move out along their normals and convex corners are rounded with a polygonal
// arc that circumscribes the true circle. Where offset edges cross, the outline
// follows the outermost boundary, so the result covers every point within radius
// of the polygon. Pockets the expansion closes off are filled. The result is
// counter-clockwise.
func BufferPolygon(polygon Polygon, radius float64) (Polygon, error) {
	if radius < 0 || math.IsNaN(radius) {
		return Polygon{}, ErrNegativeRadius
	}
	norm, err := normalizePolygon(polygon)
	if err != nil {
		return Polygon{}, err
	}
	if radius == 0 {
		return norm, nil
	}
	return Polygon{Vertices: offsetOutline(norm.Vertices, radius)}, nil
}

// roundCorner emits the arc around center from normal n1 to n2.
// Intermediate points sit at r/cos(step/2) so every arc segment is tangent to the circle.
func roundCorner(center, n1, n2 Point, sweep, radius float64) []Point {
	steps := int(math.Ceil(sweep / maxArcStep))
	step := sweep / float64(steps)
	start := math.Atan2(n1.Y, n1.X)
	outer := radius / math.Cos(step/2)

	points := make([]Point, 0, steps+2)
	points = append(points, Point{X: center.X + n1.X*radius, Y: center.Y + n1.Y*radius})
	for i := 0; i < steps; i++ {
		angle := start + (float64(i)+0.5)*step
		points = append(points, Point{
			X: center.X + math.Cos(angle)*outer,
			Y: center.Y + math.Sin(angle)*outer,
		})
	}
	points = append(points, Point{X: center.X + n2.X*radius, Y: center.Y + n2.Y*radius})
	return points
}
