package main

import (
	"log"

	"github.com/jonboulle/clockwork"

	"agent-navigator/config"
	"agent-navigator/scene"
)

func loadScene(cfg config.Config) (*scene.Scene, error) {
	if cfg.ScenePath == "" {
		log.Println("ℹ️  No scene configured, starting with an empty scene")
		log.Printf("   Set %s to a GeoJSON file or directory to load obstacles\n", config.EnvScenePath)
	}

	// An agent point in the scene wins over the configured start
	return scene.Open(cfg.ScenePath, cfg.Agent)
}

func main() {
	log.Println("========================================")
	log.Println("🚀 Agent Navigator Server")
	log.Println("========================================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	sc, err := loadScene(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to load scene: %v", err)
	}

	agent := sc.AgentPosition()
	log.Printf("   Agent: (%.2f, %.2f)\n", agent.X, agent.Y)
	log.Printf("   Obstacles: %d\n", len(sc.Obstacles()))
	log.Printf("   Buffer radius: %.2f\n", cfg.BufferRadius)
	log.Printf("   Segment duration: %s\n", cfg.SegmentDuration)
	log.Println("")

	s := newServer(cfg, sc, clockwork.NewRealClock())
	go s.hub.Run()

	app := s.routes()

	log.Printf("Server starting on %s\n", cfg.ListenAddr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /move     - Move the agent to {x, y}")
	log.Println("  GET  /state    - Controller state and agent position")
	log.Println("  GET  /graph    - Visibility graph edges for visualization")
	log.Println("  GET  /health   - Check server status")
	log.Println("  WS   /ws       - Position and state updates")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	log.Fatal(app.Listen(cfg.ListenAddr))
}
