package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"urbanlink/internal/domain"
	"urbanlink/internal/models"

	"github.com/rs/zerolog"
)

// CurrentUser reports the authenticated user, if any.
type CurrentUser interface {
	Current() (models.User, bool)
}

// Manager owns the booking lifecycle for the current user. The per-user
// booking list lives in the KV store as one JSON array; every write is a
// full replace of that record.
type Manager struct {
	store    domain.KVStore
	sessions CurrentUser
	logger   *zerolog.Logger
}

func NewManager(store domain.KVStore, sessions CurrentUser, logger *zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// Confirm creates an Upcoming booking for the current user with a snapshot
// of the worker. Anonymous callers get a silent no-op: callers gate booking
// behind a login prompt, this is only the backstop.
func (m *Manager) Confirm(ctx context.Context, worker models.Worker, when time.Time) (*models.Booking, error) {
	user, ok := m.sessions.Current()
	if !ok {
		return nil, nil
	}

	bookings, err := m.listFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	b := models.Booking{
		ID:     models.NewTimeID(),
		UserID: user.ID,
		Worker: worker.Clone(),
		Date:   when,
		Status: models.StatusUpcoming,
	}
	bookings = append(bookings, b)

	if err := m.saveFor(ctx, user.ID, bookings); err != nil {
		return nil, err
	}

	m.logger.Info().Int64("booking_id", b.ID).Int64("worker_id", worker.ID).Msg("booking confirmed")
	return &b, nil
}

// Cancel marks the booking Cancelled and reports whether the id was found.
// An unknown id is a silent no-op. Cancelling an already-cancelled booking
// just re-writes the same status, so double-cancel is harmless.
func (m *Manager) Cancel(ctx context.Context, bookingID int64) (bool, error) {
	user, ok := m.sessions.Current()
	if !ok {
		return false, nil
	}

	bookings, err := m.listFor(ctx, user.ID)
	if err != nil {
		return false, err
	}

	found := false
	for i := range bookings {
		if bookings[i].ID != bookingID {
			continue
		}
		found = true
		bookings[i].Status = models.StatusCancelled
		break
	}
	if !found {
		return false, nil
	}

	if err := m.saveFor(ctx, user.ID, bookings); err != nil {
		return false, err
	}

	m.logger.Info().Int64("booking_id", bookingID).Msg("booking cancelled")
	return true, nil
}

// All returns the current user's bookings in stored order.
func (m *Manager) All(ctx context.Context) ([]models.Booking, error) {
	user, ok := m.sessions.Current()
	if !ok {
		return nil, nil
	}
	return m.listFor(ctx, user.ID)
}

// Upcoming returns Upcoming bookings sorted ascending by date. Derived from
// the persisted list on every call.
func (m *Manager) Upcoming(ctx context.Context) ([]models.Booking, error) {
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Booking
	for _, b := range all {
		if b.Status == models.StatusUpcoming {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// History returns Completed and Cancelled bookings sorted descending by date.
func (m *Manager) History(ctx context.Context) ([]models.Booking, error) {
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Booking
	for _, b := range all {
		if b.Status == models.StatusCompleted || b.Status == models.StatusCancelled {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *Manager) listFor(ctx context.Context, userID int64) ([]models.Booking, error) {
	raw, ok, err := m.store.Get(ctx, bookingsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("read booking list: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(raw), &bookings); err != nil {
		return nil, fmt.Errorf("decode booking list: %w", err)
	}
	return bookings, nil
}

func (m *Manager) saveFor(ctx context.Context, userID int64, bookings []models.Booking) error {
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("encode booking list: %w", err)
	}
	if err := m.store.Set(ctx, bookingsKey(userID), string(data)); err != nil {
		return fmt.Errorf("persist booking list: %w", err)
	}
	return nil
}

func bookingsKey(userID int64) string {
	return fmt.Sprintf("%s%d", models.KeyBookingsPrefix, userID)
}
