package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/plantview/roadview-backend/internal/models"
)

// Catalog is the immutable, ordered list of panorama scenes available to
// the tour. It is loaded once at startup; nothing mutates it afterwards.
type Catalog struct {
	scenes []models.Scene
	byID   map[string]models.Scene
}

// Load reads the scene catalog from a JSON file containing an array of
// scenes.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene catalog: %w", err)
	}

	var scenes []models.Scene
	if err := json.Unmarshal(data, &scenes); err != nil {
		return nil, fmt.Errorf("failed to parse scene catalog: %w", err)
	}

	cat, err := New(scenes)
	if err != nil {
		return nil, err
	}
	log.Printf("[Catalog] Loaded %d scenes from %s", len(scenes), path)
	return cat, nil
}

// New builds a catalog from an already-ordered scene list, rejecting
// duplicate or empty ids.
func New(scenes []models.Scene) (*Catalog, error) {
	byID := make(map[string]models.Scene, len(scenes))
	for _, s := range scenes {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog scene %q has an empty id", s.Label)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scene id %q in catalog", s.ID)
		}
		byID[s.ID] = s
	}
	return &Catalog{scenes: append([]models.Scene(nil), scenes...), byID: byID}, nil
}

// Scenes returns the scenes in catalog order. Callers must not mutate the
// returned slice.
func (c *Catalog) Scenes() []models.Scene {
	return c.scenes
}

// Get looks a scene up by id.
func (c *Catalog) Get(id string) (models.Scene, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns the number of catalog scenes.
func (c *Catalog) Len() int {
	return len(c.scenes)
}
