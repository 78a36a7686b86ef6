package navigation

import (
	"errors"
	"fmt"
	"log"

	"github.com/paulmach/orb"
)

var (
	// ErrDegeneratePolygon is returned for outlines with fewer than 3 distinct vertices or no area
	ErrDegeneratePolygon = errors.New("degenerate polygon")

	// ErrNegativeRadius is returned when a buffer radius is below zero
	ErrNegativeRadius = errors.New("buffer radius must not be negative")

	// ErrGraphTooLarge is returned when the obstacle set has more vertices than the node limit
	ErrGraphTooLarge = errors.New("navigation graph too large")
)

// BufferedObstacle is an obstacle outline expanded by the buffer radius
type BufferedObstacle struct {
	Index   int // position of the source polygon in the input
	Polygon Polygon
	Bound   orb.Bound
}

// BufferOptions controls how obstacle outlines are expanded
type BufferOptions struct {
	Radius            float64
	SimplifyTolerance float64 // Douglas-Peucker tolerance, 0 disables simplification
}

// BuildObstacleSet buffers every polygon exactly once.
// A single degenerate polygon fails the whole build.
func BuildObstacleSet(polygons []Polygon, opts BufferOptions) ([]BufferedObstacle, error) {
	if opts.Radius < 0 {
		return nil, ErrNegativeRadius
	}

	obstacles := make([]BufferedObstacle, 0, len(polygons))
	simplified := 0

	for i, polygon := range polygons {
		source, err := normalizePolygon(polygon)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}

		radius := opts.Radius
		if opts.SimplifyTolerance > 0 {
			if reduced, ok := SimplifyPolygon(source, opts.SimplifyTolerance); ok {
				source = reduced
				radius += opts.SimplifyTolerance
				simplified++
			}
		}

		buffered, err := BufferPolygon(source, radius)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}

		obstacles = append(obstacles, BufferedObstacle{
			Index:   i,
			Polygon: buffered,
			Bound:   buffered.Bound(),
		})
	}

	log.Printf("   Buffered %d obstacles (radius %.2f)\n", len(obstacles), opts.Radius)
	if simplified > 0 {
		log.Printf("   Simplified %d outlines (tolerance %.4f)\n", simplified, opts.SimplifyTolerance)
	}

	return obstacles, nil
}
