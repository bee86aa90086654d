package notify

import (
	"sync"
	"time"

	"urbanlink/internal/domain"
	"urbanlink/internal/models"
)

// TimerScheduler schedules on real timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) domain.CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// Queue holds transient user-facing toasts. Every toast self-dismisses on
// its own timer; manual dismissal stops that timer so the callback never
// fires against an already-removed entry.
type Queue struct {
	ttl       time.Duration
	scheduler domain.Scheduler

	mu     sync.Mutex
	toasts []models.Toast
	timers map[int64]domain.CancelFunc
}

func NewQueue(ttl time.Duration, scheduler domain.Scheduler) *Queue {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Queue{
		ttl:       ttl,
		scheduler: scheduler,
		timers:    make(map[int64]domain.CancelFunc),
	}
}

// Enqueue appends a toast and arms its auto-dismiss timer.
func (q *Queue) Enqueue(severity, message string) int64 {
	toast := models.Toast{
		ID:       models.NewTimeID(),
		Severity: severity,
		Message:  message,
	}

	q.mu.Lock()
	q.toasts = append(q.toasts, toast)
	q.timers[toast.ID] = q.scheduler.AfterFunc(q.ttl, func() {
		q.Dismiss(toast.ID)
	})
	q.mu.Unlock()

	return toast.ID
}

// Dismiss removes a toast and cancels its pending timer. Unknown ids are
// no-ops, so the auto-dismiss callback racing a manual dismissal is safe.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if cancel, ok := q.timers[id]; ok {
		cancel()
		delete(q.timers, id)
	}

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			break
		}
	}
}

// Active returns the live toasts, oldest first.
func (q *Queue) Active() []models.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.Toast(nil), q.toasts...)
}
