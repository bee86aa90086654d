package directory

import (
	"fmt"
	"os"

	"urbanlink/internal/models"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only directory of worker listings. Loaded once at
// startup; accessors hand out copies so nothing downstream can mutate it.
type Catalog struct {
	workers []models.Worker
	byID    map[int64]models.Worker
}

func NewCatalog(workers []models.Worker) (*Catalog, error) {
	if err := ValidateWorkers(workers); err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}

	return &Catalog{
		workers: append([]models.Worker(nil), workers...),
		byID:    byID,
	}, nil
}

// LoadCatalog reads the worker fixtures YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures struct {
		Workers []models.Worker `yaml:"workers"`
	}
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	return NewCatalog(fixtures.Workers)
}

// ValidateWorkers rejects zero and duplicate listing IDs.
func ValidateWorkers(workers []models.Worker) error {
	seen := make(map[int64]bool)
	for _, w := range workers {
		if w.ID == 0 {
			return fmt.Errorf("worker %q has invalid ID 0", w.Name)
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate worker ID found: %d", w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}

// Workers returns the full catalog in fixture order.
func (c *Catalog) Workers() []models.Worker {
	out := make([]models.Worker, len(c.workers))
	for i, w := range c.workers {
		out[i] = w.Clone()
	}
	return out
}

func (c *Catalog) WorkerByID(id int64) (models.Worker, bool) {
	w, ok := c.byID[id]
	if !ok {
		return models.Worker{}, false
	}
	return w.Clone(), true
}

func (c *Catalog) Len() int {
	return len(c.workers)
}
