package navigation

import (
	"log"
	"math"
	"sort"
)

// snapTolerance merges arrangement vertices computed from different segments
const snapTolerance = 1e-6

// rawOffset returns the closed offset curve of a counter-clockwise outline: every
// edge shifted out by radius, circumscribed arcs at convex corners, and a detour
// through the vertex at reflex corners. The curve may cross itself. Every point on
// it lies within the closed offset region except the arc slivers outside the circle.
func rawOffset(vs []Point, radius float64) []Point {
	n := len(vs)
	curve := make([]Point, 0, n*4)

	for i := 0; i < n; i++ {
		prev := vs[(i+n-1)%n]
		cur := vs[i]
		next := vs[(i+1)%n]

		n1 := outwardNormal(prev, cur)
		n2 := outwardNormal(cur, next)
		cross := n1.X*n2.Y - n1.Y*n2.X
		dot := n1.X*n2.X + n1.Y*n2.Y
		sweep := math.Atan2(cross, dot)

		// A 180 degree spike gets a full half-circle cap
		if sweep <= -math.Pi+1e-9 {
			sweep = math.Pi
		}

		switch {
		case math.Abs(sweep) < 1e-12:
			curve = append(curve, Point{X: cur.X + n1.X*radius, Y: cur.Y + n1.Y*radius})
		case sweep > 0:
			curve = append(curve, roundCorner(cur, n1, n2, sweep, radius)...)
		default:
			curve = append(curve,
				Point{X: cur.X + n1.X*radius, Y: cur.Y + n1.Y*radius},
				cur,
				Point{X: cur.X + n2.X*radius, Y: cur.Y + n2.Y*radius},
			)
		}
	}
	return curve
}

// arrangement is the planar graph formed by splitting a set of segments at every
// point where they meet
type arrangement struct {
	points []Point
	adj    [][]int
	edges  map[[2]int]bool
}

func (a *arrangement) vertex(p Point) int {
	for i, q := range a.points {
		if q.Distance(p) <= snapTolerance {
			return i
		}
	}
	a.points = append(a.points, p)
	a.adj = append(a.adj, nil)
	return len(a.points) - 1
}

func (a *arrangement) link(i, j int) {
	if i == j {
		return
	}
	key := [2]int{min(i, j), max(i, j)}
	if a.edges[key] {
		return
	}
	a.edges[key] = true
	a.adj[i] = append(a.adj[i], j)
	a.adj[j] = append(a.adj[j], i)
}

// crossingParams returns where a proper crossing of a-b and c-d falls along each segment
func crossingParams(a, b, c, d Point) (float64, float64, bool) {
	if !segmentsCross(a, b, c, d) {
		return 0, 0, false
	}
	rx, ry := b.X-a.X, b.Y-a.Y
	sx, sy := d.X-c.X, d.Y-c.Y
	denom := rx*sy - ry*sx
	if denom == 0 {
		return 0, 0, false
	}
	qx, qy := c.X-a.X, c.Y-a.Y
	return (qx*sy - qy*sx) / denom, (qx*ry - qy*rx) / denom, true
}

func buildArrangement(curve []Point) *arrangement {
	n := len(curve)
	segs := make([][2]Point, 0, n)
	for i := 0; i < n; i++ {
		a, b := curve[i], curve[(i+1)%n]
		if a.Distance(b) > snapTolerance {
			segs = append(segs, [2]Point{a, b})
		}
	}

	cuts := make([][]float64, len(segs))
	for i := range segs {
		cuts[i] = []float64{0, 1}
	}
	for i := range segs {
		a, b := segs[i][0], segs[i][1]
		for j := i + 1; j < len(segs); j++ {
			c, d := segs[j][0], segs[j][1]
			if t, u, ok := crossingParams(a, b, c, d); ok {
				cuts[i] = append(cuts[i], t)
				cuts[j] = append(cuts[j], u)
			}
			// Endpoints touching the other segment, including collinear overlaps
			for _, p := range [2]Point{c, d} {
				if t, ok := projectOnto(a, b, p); ok {
					cuts[i] = append(cuts[i], t)
				}
			}
			for _, p := range [2]Point{a, b} {
				if u, ok := projectOnto(c, d, p); ok {
					cuts[j] = append(cuts[j], u)
				}
			}
		}
	}

	arr := &arrangement{edges: make(map[[2]int]bool)}
	for i, seg := range segs {
		ts := cuts[i]
		sort.Float64s(ts)
		last := arr.vertex(seg[0])
		for _, t := range ts[1:] {
			v := arr.vertex(lerp(seg[0], seg[1], t))
			arr.link(last, v)
			last = v
		}
	}
	return arr
}

// outline walks the outer face of the arrangement counter-clockwise, always taking
// the sharpest right turn. Holes enclosed by the curve are filled.
func (a *arrangement) outline() []Point {
	if len(a.points) < 3 {
		return nil
	}

	// The lowest of the leftmost vertices is always on the outer face
	start := 0
	for i, p := range a.points {
		s := a.points[start]
		if p.X < s.X || (p.X == s.X && p.Y < s.Y) {
			start = i
		}
	}

	var out []Point
	cur, from, first := start, -1, -1
	limit := 2*len(a.edges) + 2
	for steps := 0; steps <= limit; steps++ {
		back := Point{X: 0, Y: -1}
		if from >= 0 {
			back = Point{X: a.points[from].X - a.points[cur].X, Y: a.points[from].Y - a.points[cur].Y}
		}

		next, best := -1, math.Inf(1)
		for _, w := range a.adj[cur] {
			d := Point{X: a.points[w].X - a.points[cur].X, Y: a.points[w].Y - a.points[cur].Y}
			angle := math.Atan2(back.X*d.Y-back.Y*d.X, back.X*d.X+back.Y*d.Y)
			if angle <= 1e-12 {
				angle += 2 * math.Pi
			}
			if angle < best {
				next, best = w, angle
			}
		}
		if next < 0 {
			return nil
		}
		if from < 0 {
			first = next
		} else if cur == start && next == first {
			return out
		}
		out = append(out, a.points[cur])
		from, cur = cur, next
	}
	return nil
}

// dropCollinear removes vertices lying on the segment between their neighbours
func dropCollinear(vs []Point) []Point {
	out := append([]Point(nil), vs...)
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if side(prev, next, out[i]) != 0 {
				continue
			}
			if _, ok := projectOnto(prev, next, out[i]); !ok {
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
		}
	}
	return out
}

// offsetOutline returns the outer boundary of the raw offset curve. If the walk
// cannot close the outline it falls back to the convex hull, which still covers
// the whole offset region.
func offsetOutline(vs []Point, radius float64) []Point {
	curve := rawOffset(vs, radius)
	walked := buildArrangement(curve).outline()
	if norm, err := normalizePolygon(Polygon{Vertices: walked}); err == nil {
		return dropCollinear(norm.Vertices)
	}

	log.Printf("⚠️  Offset outline did not close for %d vertices, using convex hull\n", len(vs))
	return convexHull(curve)
}

// convexHull computes the counter-clockwise hull using a Graham scan
func convexHull(points []Point) []Point {
	if len(points) < 3 {
		return append([]Point(nil), points...)
	}

	pts := append([]Point(nil), points...)
	start := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[start].Y || (pts[i].Y == pts[start].Y && pts[i].X < pts[start].X) {
			start = i
		}
	}
	pts[0], pts[start] = pts[start], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		ai := math.Atan2(rest[i].Y-pivot.Y, rest[i].X-pivot.X)
		aj := math.Atan2(rest[j].Y-pivot.Y, rest[j].X-pivot.X)
		if ai != aj {
			return ai < aj
		}
		return pivot.Distance(rest[i]) < pivot.Distance(rest[j])
	})

	hull := []Point{pivot}
	for _, p := range rest {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

// crossProduct calculates the cross product of vectors (b-a) and (c-a)
func crossProduct(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
