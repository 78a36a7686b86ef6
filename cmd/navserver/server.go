package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/jonboulle/clockwork"

	"agent-navigator/config"
	"agent-navigator/movement"
	"agent-navigator/navigation"
	"agent-navigator/scene"
)

type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MoveResponse struct {
	Success  bool               `json:"success"`
	Outcome  string             `json:"outcome"`
	Message  string             `json:"message,omitempty"`
	Path     []navigation.Point `json:"path,omitempty"`
	Distance float64            `json:"distance,omitempty"`
	Steps    int                `json:"steps,omitempty"`
}

type PositionUpdate struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Step int     `json:"step"`
}

type server struct {
	scene      *scene.Scene
	planner    *navigation.Planner
	controller *movement.Controller
	hub        *Hub
}

func newServer(cfg config.Config, sc *scene.Scene, clock clockwork.Clock) *server {
	s := &server{
		scene:   sc,
		planner: cfg.Planner(),
		hub:     NewHub(),
	}

	executor := movement.NewTimedExecutor(sc, clock)
	executor.OnStep = func(index int, step movement.Step) {
		s.hub.Broadcast(MessageTypePosition, PositionUpdate{X: step.Target.X, Y: step.Target.Y, Step: index})
	}

	s.controller = movement.NewController(movement.Config{
		Scene:           sc,
		Planner:         s.planner,
		Executor:        executor,
		SegmentDuration: cfg.SegmentDuration,
		OnTransition: func(_, to movement.State) {
			s.hub.Broadcast(MessageTypeState, fiber.Map{"state": to.String()})
		},
	})
	return s
}

func (s *server) routes() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Post("/move", s.handleMove)
	app.Get("/state", s.handleState)
	app.Get("/graph", s.handleGraph)
	app.Get("/health", s.handleHealth)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleWebSocket))

	return app
}

// POST /move - Plan a route from the agent's position and start moving
func (s *server) handleMove(c *fiber.Ctx) error {
	log.Println("========================================")
	log.Println("📍 Move request received")
	defer log.Println("========================================")

	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		return c.Status(fiber.StatusBadRequest).JSON(MoveResponse{
			Outcome: "invalid",
			Message: "Invalid request body",
		})
	}

	result, err := s.controller.RequestMove(navigation.Point{X: req.X, Y: req.Y})
	response := MoveResponse{Outcome: result.Outcome.String()}

	switch result.Outcome {
	case movement.Busy:
		response.Message = "Agent is already moving"
		return c.Status(fiber.StatusConflict).JSON(response)

	case movement.Failed:
		log.Printf("❌ %v\n", err)
		response.Message = movement.ErrNavigationUnavailable.Error()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response)

	case movement.NoPath:
		response.Message = "No path found"
		return c.JSON(response)
	}

	response.Success = true
	response.Path = result.Path.Points()
	response.Distance = result.Path.Length()
	response.Steps = len(result.Steps)
	return c.JSON(response)
}

// GET /state - Current controller state and agent position
func (s *server) handleState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state": s.controller.State().String(),
		"agent": s.scene.AgentPosition(),
	})
}

// GET /graph - Visibility graph edges as line strings for visualization
func (s *server) handleGraph(c *fiber.Ctx) error {
	graph, err := s.planner.Graph(s.scene.Obstacles())
	if err != nil {
		log.Printf("❌ Graph build failed: %v\n", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   movement.ErrNavigationUnavailable.Error(),
			"message": err.Error(),
		})
	}

	lines := graph.Lines()
	log.Printf("   Returning %d line segments\n", len(lines))

	return c.JSON(fiber.Map{
		"success":  true,
		"lines":    lines,
		"numNodes": len(graph.Nodes),
		"numEdges": len(lines),
	})
}

// GET /health - Health check endpoint
func (s *server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ready",
		"state":     s.controller.State().String(),
		"obstacles": len(s.scene.Obstacles()),
		"clients":   s.hub.ClientCount(),
		"time":      time.Now().Format(time.RFC3339),
	})
}

// GET /ws - Position and state push channel
func (s *server) handleWebSocket(conn *websocket.Conn) {
	s.hub.register <- conn
	defer func() {
		s.hub.unregister <- conn
	}()

	s.hub.Broadcast(MessageTypeState, fiber.Map{"state": s.controller.State().String()})

	for {
		// Clients only listen; reads detect disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
