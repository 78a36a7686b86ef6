// Package config reads navigator settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"agent-navigator/movement"
	"agent-navigator/navigation"
)

// Environment variable names
const (
	EnvListenAddr        = "NAV_LISTEN_ADDR"
	EnvBufferRadius      = "NAV_BUFFER_RADIUS"
	EnvSegmentDuration   = "NAV_SEGMENT_DURATION"
	EnvSimplifyTolerance = "NAV_SIMPLIFY_TOLERANCE"
	EnvMaxGraphNodes     = "NAV_MAX_GRAPH_NODES"
	EnvScenePath         = "NAV_SCENE_PATH"
	EnvAgentX            = "NAV_AGENT_X"
	EnvAgentY            = "NAV_AGENT_Y"
)

// Config holds everything a host needs to wire up a navigator
type Config struct {
	ListenAddr        string
	BufferRadius      float64
	SegmentDuration   time.Duration
	SimplifyTolerance float64
	MaxGraphNodes     int
	ScenePath         string // file or directory of *.geojson; empty for an empty scene
	Agent             navigation.Point
	AgentSet          bool // NAV_AGENT_X or NAV_AGENT_Y was given
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		BufferRadius:    10,
		SegmentDuration: movement.DefaultSegmentDuration,
		MaxGraphNodes:   navigation.DefaultMaxNodes,
	}
}

// Load reads .env files (".env" when none are given) and then the environment.
// Missing env files are not an error; malformed values are.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			log.Printf("⚠️  %s not loaded: %v\n", file, err)
		}
	}

	cfg := Default()

	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvScenePath); v != "" {
		cfg.ScenePath = v
	}

	var err error
	if cfg.BufferRadius, err = floatEnv(EnvBufferRadius, cfg.BufferRadius); err != nil {
		return Config{}, err
	}
	if cfg.BufferRadius < 0 {
		return Config{}, fmt.Errorf("%s: %w", EnvBufferRadius, navigation.ErrNegativeRadius)
	}
	if cfg.SimplifyTolerance, err = floatEnv(EnvSimplifyTolerance, cfg.SimplifyTolerance); err != nil {
		return Config{}, err
	}
	if cfg.Agent.X, err = floatEnv(EnvAgentX, cfg.Agent.X); err != nil {
		return Config{}, err
	}
	if cfg.Agent.Y, err = floatEnv(EnvAgentY, cfg.Agent.Y); err != nil {
		return Config{}, err
	}
	cfg.AgentSet = os.Getenv(EnvAgentX) != "" || os.Getenv(EnvAgentY) != ""

	if v := os.Getenv(EnvMaxGraphNodes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s %q", EnvMaxGraphNodes, v)
		}
		cfg.MaxGraphNodes = n
	}

	if v := os.Getenv(EnvSegmentDuration); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", EnvSegmentDuration, v)
		}
		cfg.SegmentDuration = d
	}

	return cfg, nil
}

// Planner builds a navigation planner from the settings
func (c Config) Planner() *navigation.Planner {
	planner := navigation.NewPlanner(c.BufferRadius)
	planner.SimplifyTolerance = c.SimplifyTolerance
	planner.MaxNodes = c.MaxGraphNodes
	return planner
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
