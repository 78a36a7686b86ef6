// Package movement drives an agent along planned routes. A Controller accepts
// move requests, asks a planner for a path and hands the resulting steps to an
// Executor. While a move is in progress further requests are ignored.
package movement

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"agent-navigator/navigation"
)

// ErrNavigationUnavailable is returned when a route cannot be computed for the current scene
var ErrNavigationUnavailable = errors.New("cannot compute navigation")

// State of the controller
type State int

const (
	Idle State = iota
	Moving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	default:
		return "unknown"
	}
}

// Outcome describes what a move request did
type Outcome int

const (
	Started Outcome = iota // steps were handed to the executor
	Busy                   // a move was already in progress; nothing changed
	NoPath                 // the destination is unreachable
	Failed                 // the scene could not be turned into a navigation graph
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case Busy:
		return "busy"
	case NoPath:
		return "no_path"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// SceneSource provides the agent position and obstacle outlines at request time
type SceneSource interface {
	AgentPosition() navigation.Point
	Obstacles() []navigation.Polygon
}

// PathPlanner computes a route; *navigation.Planner satisfies it
type PathPlanner interface {
	Plan(start, end navigation.Point, obstacles []navigation.Polygon) (navigation.Path, error)
}

// Result of a move request
type Result struct {
	Outcome Outcome
	Path    navigation.Path
	Steps   []Step
}

// Config wires a Controller to its collaborators
type Config struct {
	Scene           SceneSource
	Planner         PathPlanner
	Executor        Executor
	SegmentDuration time.Duration         // 0 means DefaultSegmentDuration
	OnTransition    func(from, to State) // optional
}

// Controller is the per-agent movement state machine
type Controller struct {
	mu    sync.Mutex
	state State

	scene           SceneSource
	planner         PathPlanner
	executor        Executor
	segmentDuration time.Duration
	onTransition    func(from, to State)
}

// NewController creates an idle controller
func NewController(cfg Config) *Controller {
	duration := cfg.SegmentDuration
	if duration <= 0 {
		duration = DefaultSegmentDuration
	}
	return &Controller{
		state:           Idle,
		scene:           cfg.Scene,
		planner:         cfg.Planner,
		executor:        cfg.Executor,
		segmentDuration: duration,
		onTransition:    cfg.OnTransition,
	}
}

// State returns the current controller state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestMove plans a route from the agent's current position to dest and starts
// executing it. Requests made while Moving return Busy and change nothing.
// Errors are only returned with the Failed outcome.
func (c *Controller) RequestMove(dest navigation.Point) (Result, error) {
	if !c.begin() {
		log.Printf("⏳ Move to (%.2f, %.2f) ignored: already moving\n", dest.X, dest.Y)
		return Result{Outcome: Busy}, nil
	}

	path, err := c.plan(dest)
	if err != nil {
		c.finish()
		log.Printf("❌ Navigation unavailable: %v\n", err)
		return Result{Outcome: Failed}, fmt.Errorf("%w: %w", ErrNavigationUnavailable, err)
	}

	if len(path) == 0 {
		c.finish()
		return Result{Outcome: NoPath}, nil
	}

	steps := StepsFromPath(path, c.segmentDuration)
	if len(steps) == 0 {
		c.finish()
		return Result{Outcome: Started, Path: path}, nil
	}

	if err := c.execute(steps); err != nil {
		c.finish()
		log.Printf("❌ Executor failed: %v\n", err)
		return Result{Outcome: Failed}, fmt.Errorf("%w: %w", ErrNavigationUnavailable, err)
	}

	log.Printf("🚶 Moving along %d segments\n", len(steps))
	return Result{Outcome: Started, Path: path, Steps: steps}, nil
}

// begin claims the Moving state; false means another move holds it
func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.state == Moving {
		c.mu.Unlock()
		return false
	}
	c.state = Moving
	c.mu.Unlock()

	c.notify(Idle, Moving)
	return true
}

// finish returns the controller to Idle; it is also the executor's completion callback
func (c *Controller) finish() {
	c.mu.Lock()
	from := c.state
	c.state = Idle
	c.mu.Unlock()

	if from != Idle {
		c.notify(from, Idle)
	}
}

func (c *Controller) notify(from, to State) {
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

func (c *Controller) plan(dest navigation.Point) (path navigation.Path, err error) {
	defer func() {
		if r := recover(); r != nil {
			path, err = nil, fmt.Errorf("planner panic: %v", r)
		}
	}()
	return c.planner.Plan(c.scene.AgentPosition(), dest, c.scene.Obstacles())
}

func (c *Controller) execute(steps []Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()
	c.executor.Run(steps, c.finish)
	return nil
}
