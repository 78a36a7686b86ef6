package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agent-navigator/navigation"
)

// clearEnv blanks every navigator variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvListenAddr, EnvBufferRadius, EnvSegmentDuration, EnvSimplifyTolerance,
		EnvMaxGraphNodes, EnvScenePath, EnvAgentX, EnvAgentY,
	} {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), cfg)
	}
	if cfg.ListenAddr != ":8080" || cfg.BufferRadius != 10 || cfg.SegmentDuration != 300*time.Millisecond {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.MaxGraphNodes != navigation.DefaultMaxNodes {
		t.Errorf("Expected %d max nodes, got %d", navigation.DefaultMaxNodes, cfg.MaxGraphNodes)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvListenAddr, ":9090")
	t.Setenv(EnvBufferRadius, "2.5")
	t.Setenv(EnvSegmentDuration, "1s")
	t.Setenv(EnvSimplifyTolerance, "0.25")
	t.Setenv(EnvMaxGraphNodes, "50")
	t.Setenv(EnvScenePath, "scenes/")
	t.Setenv(EnvAgentX, "-3")
	t.Setenv(EnvAgentY, "4")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Config{
		ListenAddr:        ":9090",
		BufferRadius:      2.5,
		SegmentDuration:   time.Second,
		SimplifyTolerance: 0.25,
		MaxGraphNodes:     50,
		ScenePath:         "scenes/",
		Agent:             navigation.Point{X: -3, Y: 4},
		AgentSet:          true,
	}
	if cfg != want {
		t.Errorf("Expected %+v, got %+v", want, cfg)
	}

	planner := cfg.Planner()
	if planner.BufferRadius != 2.5 || planner.SimplifyTolerance != 0.25 || planner.MaxNodes != 50 {
		t.Errorf("Planner does not reflect config: %+v", planner)
	}
}

func TestLoadMarksAgentAtOriginAsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAgentX, "0")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.AgentSet || cfg.Agent != (navigation.Point{}) {
		t.Errorf("Expected an explicit agent at the origin, got %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvBufferRadius)
	os.Unsetenv(EnvListenAddr)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "NAV_BUFFER_RADIUS=7\nNAV_LISTEN_ADDR=:7000\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvBufferRadius)
		os.Unsetenv(EnvListenAddr)
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.BufferRadius != 7 || cfg.ListenAddr != ":7000" {
		t.Errorf("Expected values from env file, got %+v", cfg)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"radius not a number", EnvBufferRadius, "wide"},
		{"negative radius", EnvBufferRadius, "-1"},
		{"bad duration", EnvSegmentDuration, "soon"},
		{"zero duration", EnvSegmentDuration, "0s"},
		{"negative node limit", EnvMaxGraphNodes, "-5"},
		{"node limit not a number", EnvMaxGraphNodes, "many"},
		{"agent x", EnvAgentX, "left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(missingEnvFile(t)); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadNegativeRadiusIsTyped(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBufferRadius, "-1")

	_, err := Load(missingEnvFile(t))
	if !errors.Is(err, navigation.ErrNegativeRadius) {
		t.Errorf("Expected ErrNegativeRadius, got %v", err)
	}
}
