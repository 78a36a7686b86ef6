package scene

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"agent-navigator/navigation"
)

// RoleAgent marks the Point feature that sets the agent's start position
const RoleAgent = "agent"

// LoadGeoJSON reads a scene from a GeoJSON feature collection.
// Polygon and MultiPolygon outer rings become obstacles; a Point feature with
// property "role": "agent" places the agent.
func LoadGeoJSON(path string) (*Scene, error) {
	s := New(navigation.Point{})
	if _, err := s.loadFile(path); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDir loads every *.geojson file in a directory into one scene.
// Unreadable files are logged and skipped.
func LoadDir(dir string) (*Scene, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading scene from %d GeoJSON files...\n", len(files))

	s := New(navigation.Point{})
	for _, file := range files {
		count, err := s.loadFile(file)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", filepath.Base(file), err)
			continue
		}
		log.Printf("   ✅ Loaded %d obstacles from %s\n", count, filepath.Base(file))
	}

	log.Printf("Total obstacles loaded: %d\n", len(s.Shapes()))
	return s, nil
}

// Load picks LoadDir or LoadGeoJSON depending on what path points at
func Load(path string) (*Scene, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadGeoJSON(path)
}

// Open loads the scene at path, or starts an empty one when path is empty.
// The agent starts at fallback unless the scene places it.
func Open(path string, fallback navigation.Point) (*Scene, error) {
	if path == "" {
		return New(fallback), nil
	}

	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	if !s.HasLoadedAgent() {
		s.SetAgentPosition(fallback)
	}
	return s, nil
}

func (s *Scene) loadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read scene: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return s.addFeatures(fc, filepath.Base(path)), nil
}

// addFeatures converts GeoJSON features into scene content and returns the obstacle count
func (s *Scene) addFeatures(fc *geojson.FeatureCollection, source string) int {
	count := 0
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		name := feature.Properties.MustString("name", fmt.Sprintf("%s#%d", source, i))

		switch g := feature.Geometry.(type) {
		case orb.Point:
			if feature.Properties.MustString("role", "") == RoleAgent {
				s.placeAgent(navigation.Point{X: g[0], Y: g[1]})
			}

		case orb.Polygon:
			// First ring is the outer boundary
			if len(g) > 0 {
				s.AddObstacle(name, navigation.PolygonFromRing(g[0]))
				count++
			}

		case orb.MultiPolygon:
			for j, polygon := range g {
				if len(polygon) > 0 {
					s.AddObstacle(fmt.Sprintf("%s.%d", name, j), navigation.PolygonFromRing(polygon[0]))
					count++
				}
			}

		default:
			log.Printf("⚠️  Ignoring %s geometry in %s\n", feature.Geometry.GeoJSONType(), source)
		}
	}
	return count
}
