package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"agent-navigator/config"
	"agent-navigator/navigation"
	"agent-navigator/scene"
)

func newTestServer(t *testing.T) (*server, *fiber.App) {
	t.Helper()
	sc := scene.New(navigation.Point{X: 0, Y: 0})
	sc.AddRect("crate", 40, -10, 20, 20)

	s := newServer(config.Default(), sc, clockwork.NewFakeClock())
	return s, s.routes()
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestMoveStartsAndRejectsWhileMoving(t *testing.T) {
	_, app := newTestServer(t)

	status, body := do(t, app, http.MethodPost, "/move", `{"x": 100, "y": 0}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%v)", status, body)
	}
	if body["success"] != true || body["outcome"] != "started" {
		t.Errorf("Expected a started move, got %v", body)
	}
	if path, ok := body["path"].([]interface{}); !ok || len(path) < 3 {
		t.Errorf("Expected a detour path, got %v", body["path"])
	}

	// The fake clock never advances, so the agent is still moving
	status, body = do(t, app, http.MethodPost, "/move", `{"x": -100, "y": 0}`)
	if status != http.StatusConflict {
		t.Errorf("Expected 409, got %d", status)
	}
	if body["outcome"] != "busy" {
		t.Errorf("Expected busy outcome, got %v", body["outcome"])
	}

	_, state := do(t, app, http.MethodGet, "/state", "")
	if state["state"] != "moving" {
		t.Errorf("Expected moving state, got %v", state["state"])
	}
}

func TestMoveToEnclosedPointReportsNoPath(t *testing.T) {
	_, app := newTestServer(t)

	status, body := do(t, app, http.MethodPost, "/move", `{"x": 50, "y": 0}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["success"] != false || body["outcome"] != "no_path" {
		t.Errorf("Expected no_path, got %v", body)
	}
}

func TestMoveWithDegenerateSceneIsUnprocessable(t *testing.T) {
	s, app := newTestServer(t)
	s.scene.AddObstacle("sliver", navigation.Polygon{Vertices: []navigation.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}})

	status, body := do(t, app, http.MethodPost, "/move", `{"x": 100, "y": 0}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", status)
	}
	if body["message"] != "cannot compute navigation" {
		t.Errorf("Expected navigation error message, got %v", body["message"])
	}

	_, state := do(t, app, http.MethodGet, "/state", "")
	if state["state"] != "idle" {
		t.Errorf("Expected idle state after failure, got %v", state["state"])
	}
}

func TestMoveRejectsInvalidBody(t *testing.T) {
	_, app := newTestServer(t)

	status, _ := do(t, app, http.MethodPost, "/move", `{"x": "east"`)
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", status)
	}
}

func TestGraphLines(t *testing.T) {
	_, app := newTestServer(t)

	status, body := do(t, app, http.MethodGet, "/graph", "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	lines, ok := body["lines"].([]interface{})
	if !ok || len(lines) == 0 {
		t.Fatalf("Expected graph lines, got %v", body["lines"])
	}
	if int(body["numEdges"].(float64)) != len(lines) {
		t.Errorf("Expected numEdges to match lines, got %v", body["numEdges"])
	}
}

func TestHealth(t *testing.T) {
	_, app := newTestServer(t)

	status, body := do(t, app, http.MethodGet, "/health", "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["status"] != "ready" || body["obstacles"] != float64(1) {
		t.Errorf("Unexpected health response %v", body)
	}
}
