package storage

import (
	"context"
	"sync/atomic"
	"time"

	"urbanlink/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverStore serves from the primary adapter until it errors, then
// switches to the fallback. The primary is retried after a cooldown.
type FailoverStore struct {
	primary   domain.KVStore
	fallback  domain.KVStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback domain.KVStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) Get(ctx context.Context, key string) (string, bool, error) {
	if !s.isDown.Load() {
		val, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			return val, ok, nil
		}
		s.logger.Error().Err(err).Msg("Primary store failed, falling back to memory")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	// Try to recover after 1 minute.
	if s.isDown.Load() && time.Since(s.lastCheck) > time.Minute {
		val, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			s.isDown.Store(false)
			return val, ok, nil
		}
		s.lastCheck = time.Now()
	}

	return s.fallback.Get(ctx, key)
}

func (s *FailoverStore) Set(ctx context.Context, key, value string) error {
	if !s.isDown.Load() {
		err := s.primary.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		s.logger.Error().Err(err).Msg("Primary store failed, falling back to memory")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	return s.fallback.Set(ctx, key, value)
}

func (s *FailoverStore) Remove(ctx context.Context, key string) error {
	if !s.isDown.Load() {
		err := s.primary.Remove(ctx, key)
		if err == nil {
			return nil
		}
		s.logger.Error().Err(err).Msg("Primary store failed, falling back to memory")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	return s.fallback.Remove(ctx, key)
}
