package booking

import (
	"context"
	"io"
	"testing"
	"time"

	"urbanlink/internal/models"
	"urbanlink/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	user *models.User
}

func (s *fakeSession) Current() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func newTestManager(user *models.User) (*Manager, *storage.MemoryStore) {
	logger := zerolog.New(io.Discard)
	store := storage.NewMemoryStore()
	return NewManager(store, &fakeSession{user: user}, &logger), store
}

func worker() models.Worker {
	return models.Worker{ID: 7, Name: "Rajesh Kumar", Service: "Plumber", HourlyRate: 500}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	when := time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC)

	t.Run("AnonymousIsNoop", func(t *testing.T) {
		m, store := newTestManager(nil)

		b, err := m.Confirm(ctx, worker(), when)
		require.NoError(t, err)
		assert.Nil(t, b)

		// No persisted write happened.
		_, ok, _ := store.Get(ctx, bookingsKey(0))
		assert.False(t, ok)
	})

	t.Run("CreatesUpcomingBooking", func(t *testing.T) {
		user := &models.User{ID: 42, Name: "Asha"}
		m, store := newTestManager(user)

		b, err := m.Confirm(ctx, worker(), when)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, models.StatusUpcoming, b.Status)
		assert.Equal(t, int64(42), b.UserID)
		assert.Equal(t, "Rajesh Kumar", b.Worker.Name)
		assert.True(t, b.Date.Equal(when))

		_, ok, _ := store.Get(ctx, bookingsKey(42))
		assert.True(t, ok)

		all, err := m.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("SnapshotIsDenormalized", func(t *testing.T) {
		user := &models.User{ID: 1}
		m, _ := newTestManager(user)

		w := worker()
		b, err := m.Confirm(ctx, w, when)
		require.NoError(t, err)

		w.Name = "Renamed"
		assert.Equal(t, "Rajesh Kumar", b.Worker.Name)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 42}
	when := time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC)

	t.Run("CancelsById", func(t *testing.T) {
		m, _ := newTestManager(user)
		b, err := m.Confirm(ctx, worker(), when)
		require.NoError(t, err)
		other, err := m.Confirm(ctx, worker(), when.Add(24*time.Hour))
		require.NoError(t, err)

		found, err := m.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, found)

		all, err := m.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, got := range all {
			switch got.ID {
			case b.ID:
				assert.Equal(t, models.StatusCancelled, got.Status)
			case other.ID:
				assert.Equal(t, models.StatusUpcoming, got.Status)
			}
		}
	})

	t.Run("DoubleCancelIsNoop", func(t *testing.T) {
		m, _ := newTestManager(user)
		b, err := m.Confirm(ctx, worker(), when)
		require.NoError(t, err)

		_, err = m.Cancel(ctx, b.ID)
		require.NoError(t, err)
		found, err := m.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, found)

		all, _ := m.All(ctx)
		assert.Equal(t, models.StatusCancelled, all[0].Status)
	})

	t.Run("UnknownIdHasNoEffect", func(t *testing.T) {
		m, _ := newTestManager(user)
		_, err := m.Confirm(ctx, worker(), when)
		require.NoError(t, err)

		found, err := m.Cancel(ctx, 999999)
		require.NoError(t, err)
		assert.False(t, found)

		all, _ := m.All(ctx)
		assert.Equal(t, models.StatusUpcoming, all[0].Status)
	})

	t.Run("AnonymousIsNoop", func(t *testing.T) {
		m, _ := newTestManager(nil)

		found, err := m.Cancel(ctx, 1)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 42}
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("UpcomingAscendingHistoryDescending", func(t *testing.T) {
		m, _ := newTestManager(user)

		late, err := m.Confirm(ctx, worker(), base.Add(72*time.Hour))
		require.NoError(t, err)
		early, err := m.Confirm(ctx, worker(), base)
		require.NoError(t, err)
		midCancelled, err := m.Confirm(ctx, worker(), base.Add(24*time.Hour))
		require.NoError(t, err)
		lateCancelled, err := m.Confirm(ctx, worker(), base.Add(48*time.Hour))
		require.NoError(t, err)

		_, err = m.Cancel(ctx, midCancelled.ID)
		require.NoError(t, err)
		_, err = m.Cancel(ctx, lateCancelled.ID)
		require.NoError(t, err)

		upcoming, err := m.Upcoming(ctx)
		require.NoError(t, err)
		require.Len(t, upcoming, 2)
		assert.Equal(t, early.ID, upcoming[0].ID)
		assert.Equal(t, late.ID, upcoming[1].ID)

		history, err := m.History(ctx)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, lateCancelled.ID, history[0].ID)
		assert.Equal(t, midCancelled.ID, history[1].ID)
	})

	t.Run("EmptyForAnonymous", func(t *testing.T) {
		m, _ := newTestManager(nil)

		upcoming, err := m.Upcoming(ctx)
		require.NoError(t, err)
		assert.Empty(t, upcoming)
	})
}
