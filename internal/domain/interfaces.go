package domain

import (
	"context"
	"time"

	"urbanlink/internal/models"
)

// KVStore is the persistence adapter: string keys to string values, the
// localStorage contract of the original demo. Get reports absence through
// the bool, not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Directory is the read-only worker catalog plus its search engine.
type Directory interface {
	Workers() []models.Worker
	WorkerByID(id int64) (models.Worker, bool)
	Search(ctx context.Context, service, location string) ([]models.Worker, error)
}

// CancelFunc stops a pending scheduled call. Returns false when the call
// already fired.
type CancelFunc func() bool

// Scheduler abstracts timer creation so tests can drive expiry manually.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// Clock abstracts waiting so the simulated search latency is testable.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// EventPublisher fans application events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier is the toast queue surface the handlers feed.
type Notifier interface {
	Enqueue(severity, message string) int64
	Dismiss(id int64)
}

// Assistant is the generative-AI collaborator.
type Assistant interface {
	Send(ctx context.Context, history []models.ChatMessage, message string) (string, error)
	Match(ctx context.Context, request string, candidates []models.Worker) (models.Worker, error)
	Estimate(ctx context.Context, worker models.Worker, jobDescription string) (models.PricingEstimate, error)
}
