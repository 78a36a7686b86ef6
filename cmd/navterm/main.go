package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/jonboulle/clockwork"

	"agent-navigator/config"
	"agent-navigator/movement"
	"agent-navigator/navigation"
	"agent-navigator/scene"
)

const (
	frameMs      = 33
	stepToneHz   = 660
	refuseToneHz = 220
	defaultRange = 1.0 // buffer radius in cells when none is configured
)

var (
	styleObstacle = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	stylePath     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleNode     = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleAgent    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

type App struct {
	screen        tcell.Screen
	width, height int

	scene      *scene.Scene
	planner    *navigation.Planner
	controller *movement.Controller

	// Cells covered by an obstacle
	blocked map[[2]int]bool

	path      []navigation.Point
	nodes     []navigation.Point
	showGraph bool
	status    string

	audioInit bool
}

func NewApp(cfg config.Config, sc *scene.Scene) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	a := &App{
		screen:  screen,
		scene:   sc,
		planner: cfg.Planner(),
		status:  "click to move, g: graph, c: clear, q: quit",
	}
	a.width, a.height = screen.Size()

	if len(sc.Obstacles()) == 0 {
		addDefaultObstacles(sc, a.width, a.height-1, !cfg.AgentSet)
	}
	a.buildMask()

	executor := movement.NewTimedExecutor(sc, clockwork.NewRealClock())
	executor.OnStep = func(int, movement.Step) {
		a.playTone(stepToneHz)
	}
	a.controller = movement.NewController(movement.Config{
		Scene:           sc,
		Planner:         a.planner,
		Executor:        executor,
		SegmentDuration: cfg.SegmentDuration,
	})

	if err := a.initAudio(); err != nil {
		// Non-fatal, the navigator runs without sound
		log.Printf("Audio initialization failed: %v", err)
	}
	return a, nil
}

// addDefaultObstacles lays out a few node-sized blocks relative to the screen.
// With placeAgent the agent moves to the free left margin unless the scene put it somewhere.
func addDefaultObstacles(sc *scene.Scene, w, h int, placeAgent bool) {
	fw, fh := float64(w), float64(h)
	sc.AddRect("west", fw*0.2, fh*0.1, fw*0.08, fh*0.55)
	sc.AddRect("center", fw*0.42, fh*0.35, fw*0.16, fh*0.3)
	sc.AddRect("east", fw*0.7, fh*0.4, fw*0.08, fh*0.55)
	sc.AddObstacle("wedge", navigation.Polygon{Vertices: []navigation.Point{
		{X: fw * 0.55, Y: fh * 0.08}, {X: fw * 0.8, Y: fh * 0.08}, {X: fw * 0.8, Y: fh * 0.25},
	}})
	if placeAgent && !sc.HasLoadedAgent() {
		sc.SetAgentPosition(navigation.Point{X: fw * 0.05, Y: fh * 0.5})
	}
}

func (a *App) buildMask() {
	a.blocked = make(map[[2]int]bool)
	for _, polygon := range a.scene.Obstacles() {
		bound := polygon.Bound()
		for y := int(math.Floor(bound.Min[1])); y <= int(math.Ceil(bound.Max[1])); y++ {
			for x := int(math.Floor(bound.Min[0])); x <= int(math.Ceil(bound.Max[0])); x++ {
				if navigation.IsPointInPolygon(navigation.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, polygon) {
					a.blocked[[2]int{x, y}] = true
				}
			}
		}
	}
}

func (a *App) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		a.audioInit = true
	}
	return err
}

func (a *App) playTone(freq int) {
	if !a.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(40 * time.Millisecond)
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(duration, sine))
}

func (a *App) moveTo(x, y int) {
	dest := navigation.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	result, err := a.controller.RequestMove(dest)

	switch result.Outcome {
	case movement.Started:
		a.path = result.Path.Points()
		a.status = fmt.Sprintf("moving to (%d, %d): %d segments, length %.1f",
			x, y, len(result.Steps), result.Path.Length())
	case movement.Busy:
		a.status = "busy: wait for the current move to finish"
		a.playTone(refuseToneHz)
	case movement.NoPath:
		a.status = fmt.Sprintf("no path to (%d, %d)", x, y)
		a.playTone(refuseToneHz)
	case movement.Failed:
		a.status = err.Error()
		a.playTone(refuseToneHz)
	}
}

func (a *App) toggleGraph() {
	a.showGraph = !a.showGraph
	a.nodes = nil
	if !a.showGraph {
		return
	}

	graph, err := a.planner.Graph(a.scene.Obstacles())
	if err != nil {
		a.status = err.Error()
		a.showGraph = false
		return
	}
	for _, n := range graph.Nodes {
		a.nodes = append(a.nodes, n.Point)
	}
	a.status = fmt.Sprintf("graph: %d nodes, %d edges", len(graph.Nodes), graph.EdgeCount())
}

func (a *App) draw() {
	a.screen.Clear()

	for cell := range a.blocked {
		a.screen.SetContent(cell[0], cell[1], ' ', nil, styleObstacle)
	}

	for _, p := range a.nodes {
		a.screen.SetContent(int(p.X), int(p.Y), '+', nil, styleNode)
	}

	if a.controller.State() == movement.Moving {
		for i := 1; i < len(a.path); i++ {
			a.drawSegment(a.path[i-1], a.path[i])
		}
	}

	agent := a.scene.AgentPosition()
	a.screen.SetContent(int(agent.X), int(agent.Y), '@', nil, styleAgent)

	line := fmt.Sprintf(" [%s] agent (%.1f, %.1f)  %s", a.controller.State(), agent.X, agent.Y, a.status)
	for x := 0; x < a.width; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		a.screen.SetContent(x, a.height-1, r, nil, styleStatus)
	}

	a.screen.Show()
}

func (a *App) drawSegment(from, to navigation.Point) {
	samples := int(math.Ceil(from.Distance(to))) * 2
	for k := 0; k <= samples; k++ {
		t := 1.0
		if samples > 0 {
			t = float64(k) / float64(samples)
		}
		x := from.X + (to.X-from.X)*t
		y := from.Y + (to.Y-from.Y)*t
		a.screen.SetContent(int(x), int(y), '·', nil, stylePath)
	}
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'g':
				a.toggleGraph()
			case 'c':
				a.path = nil
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if y < a.height-1 {
				a.moveTo(x, y)
			}
		}

	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
	}

	return true
}

func (a *App) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) cleanup() {
	if a.audioInit {
		speaker.Close()
	}
	a.screen.Fini()
}

func main() {
	// Planner progress lines would tear the terminal UI
	log.SetOutput(io.Discard)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv(config.EnvBufferRadius) == "" {
		cfg.BufferRadius = defaultRange
	}

	sc, err := scene.Open(cfg.ScenePath, cfg.Agent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scene: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApp(cfg, sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}
