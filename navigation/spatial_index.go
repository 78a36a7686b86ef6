package navigation

import (
	"log"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// boundPadding keeps rectangles non-degenerate and makes touching boxes overlap
const boundPadding = 1e-6

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	index int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.rect
}

// SpatialIndex answers line-of-sight queries against a fixed obstacle set
type SpatialIndex struct {
	tree      *rtreego.Rtree
	obstacles []BufferedObstacle
	unindexed []int // obstacles whose bounds could not be turned into a rectangle
}

// NewSpatialIndex creates a new spatial index over buffered obstacles
func NewSpatialIndex(obstacles []BufferedObstacle) *SpatialIndex {
	si := &SpatialIndex{
		tree:      rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		obstacles: obstacles,
	}

	for i, o := range obstacles {
		rect, err := boundToRect(o.Bound)
		if err != nil {
			log.Printf("⚠️  Obstacle %d has unusable bounds, checking it on every query: %v\n", o.Index, err)
			si.unindexed = append(si.unindexed, i)
			continue
		}
		si.tree.Insert(&obstacleEntry{index: i, rect: rect})
	}

	return si
}

// Candidates returns the obstacles whose bounding box meets the segment's bounding box,
// in ascending order
func (si *SpatialIndex) Candidates(a, b Point) []int {
	query := orb.Bound{Min: a.orb(), Max: a.orb()}.Extend(b.orb())
	rect, err := boundToRect(query)
	if err != nil {
		all := make([]int, len(si.obstacles))
		for i := range all {
			all[i] = i
		}
		return all
	}

	results := si.tree.SearchIntersect(rect)
	indexes := make([]int, 0, len(results)+len(si.unindexed))
	for _, item := range results {
		indexes = append(indexes, item.(*obstacleEntry).index)
	}
	indexes = append(indexes, si.unindexed...)
	sort.Ints(indexes)

	return indexes
}

// Visible checks that segment ab does not pass through the interior of any obstacle.
// Segments running along an obstacle edge are visible.
func (si *SpatialIndex) Visible(a, b Point) bool {
	for _, i := range si.Candidates(a, b) {
		if segmentBlocked(a, b, si.obstacles[i].Polygon) {
			return false
		}
	}
	return true
}

// segmentBlocked checks if segment ab enters the interior of polygon.
// ab is cut at every place it touches the boundary; with no proper crossing,
// each piece is either fully inside or fully outside, so its midpoint decides.
func segmentBlocked(a, b Point, polygon Polygon) bool {
	n := len(polygon.Vertices)
	cuts := []float64{0, 1}

	for i := 0; i < n; i++ {
		c := polygon.Vertices[i]
		d := polygon.Vertices[(i+1)%n]
		if segmentsCross(a, b, c, d) {
			return true
		}
		if t, ok := projectOnto(a, b, c); ok {
			cuts = append(cuts, t)
		}
	}

	sort.Float64s(cuts)
	for k := 1; k < len(cuts); k++ {
		if cuts[k]-cuts[k-1] < 1e-12 {
			continue
		}
		mid := lerp(a, b, (cuts[k-1]+cuts[k])/2)
		if IsPointInsidePolygon(mid, polygon) {
			return true
		}
	}

	return false
}

// boundToRect converts an orb bound to a padded rtreego rectangle
func boundToRect(bound orb.Bound) (rtreego.Rect, error) {
	bound = bound.Pad(boundPadding)
	return rtreego.NewRect(
		rtreego.Point{bound.Min[0], bound.Min[1]},
		[]float64{bound.Max[0] - bound.Min[0], bound.Max[1] - bound.Min[1]},
	)
}
