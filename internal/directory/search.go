package directory

import (
	"context"
	"strings"
	"time"

	"urbanlink/internal/models"
)

// SystemClock waits on the wall clock. Tests substitute a clock with no
// real sleeping.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Engine matches catalog listings against free-text terms, with a simulated
// network delay in front of every query.
type Engine struct {
	catalog *Catalog
	delay   time.Duration
	clock   sleeper
}

func NewEngine(catalog *Catalog, delay time.Duration, clock sleeper) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		catalog: catalog,
		delay:   delay,
		clock:   clock,
	}
}

// Search returns listings whose service category contains the service term,
// case-insensitively. A non-empty location term additionally filters on
// location. An empty service term matches every listing, which is how
// browse-by-category calls through with just the category name.
func (e *Engine) Search(ctx context.Context, service, location string) ([]models.Worker, error) {
	if err := e.clock.Sleep(ctx, e.delay); err != nil {
		return nil, err
	}

	serviceTerm := strings.ToLower(service)
	locationTerm := strings.ToLower(location)

	var results []models.Worker
	for _, w := range e.catalog.Workers() {
		if !strings.Contains(strings.ToLower(w.Service), serviceTerm) {
			continue
		}
		if locationTerm != "" && !strings.Contains(strings.ToLower(w.Location), locationTerm) {
			continue
		}
		results = append(results, w)
	}

	return results, nil
}
