package movement

import (
	"time"

	"agent-navigator/navigation"
)

// DefaultSegmentDuration is how long the agent takes to travel one path segment
const DefaultSegmentDuration = 300 * time.Millisecond

// Step moves the agent from one waypoint to the next over a fixed duration
type Step struct {
	From     navigation.Point `json:"from"`
	Target   navigation.Point `json:"target"`
	Duration time.Duration    `json:"duration"`
}

// StepsFromPath turns each consecutive pair of waypoints into one Step.
// Paths with fewer than two nodes produce no steps.
func StepsFromPath(path navigation.Path, duration time.Duration) []Step {
	if len(path) < 2 {
		return nil
	}

	steps := make([]Step, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		steps = append(steps, Step{
			From:     path[i-1].Point,
			Target:   path[i].Point,
			Duration: duration,
		})
	}
	return steps
}
