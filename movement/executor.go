package movement

import (
	"log"

	"github.com/jonboulle/clockwork"

	"agent-navigator/navigation"
)

// Executor carries out a sequence of steps and calls done after the last one.
// Run must not block the caller.
type Executor interface {
	Run(steps []Step, done func())
}

// Positioner receives the agent position after each completed step
type Positioner interface {
	SetAgentPosition(p navigation.Point)
}

// TimedExecutor plays steps back in order on its own goroutine, waiting each
// step's duration before snapping the agent to the step target.
type TimedExecutor struct {
	Clock  clockwork.Clock
	Agent  Positioner
	OnStep func(index int, step Step) // optional, called after the position is set
}

// NewTimedExecutor creates an executor driven by the given clock
func NewTimedExecutor(agent Positioner, clock clockwork.Clock) *TimedExecutor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TimedExecutor{
		Clock: clock,
		Agent: agent,
	}
}

// Run starts playback and returns immediately. done is called when playback
// ends, including when it stops early because the agent or OnStep panicked.
func (e *TimedExecutor) Run(steps []Step, done func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ Playback stopped: %v\n", r)
			}
			if done != nil {
				done()
			}
		}()

		if e.Agent == nil {
			log.Println("❌ Playback skipped: no agent to move")
			return
		}
		for i, step := range steps {
			<-e.Clock.After(step.Duration)
			e.Agent.SetAgentPosition(step.Target)
			if e.OnStep != nil {
				e.OnStep(i, step)
			}
		}
	}()
}
