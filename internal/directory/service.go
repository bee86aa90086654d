package directory

import (
	"context"

	"urbanlink/internal/models"
)

// Service joins the catalog accessors and the search engine into the single
// directory surface the application consumes.
type Service struct {
	catalog *Catalog
	engine  *Engine
}

func NewService(catalog *Catalog, engine *Engine) *Service {
	return &Service{catalog: catalog, engine: engine}
}

func (s *Service) Workers() []models.Worker {
	return s.catalog.Workers()
}

func (s *Service) WorkerByID(id int64) (models.Worker, bool) {
	return s.catalog.WorkerByID(id)
}

func (s *Service) Search(ctx context.Context, service, location string) ([]models.Worker, error) {
	return s.engine.Search(ctx, service, location)
}
