package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"urbanlink/internal/domain"
	"urbanlink/internal/models"

	"github.com/rs/zerolog"
)

// Manager tracks the current authenticated user and keeps the identity
// table and the current-user pointer persisted in the KV store.
//
// Email lookup is an exact string match: no trimming, no case folding.
// That mirrors the original behavior and is relied on by the stored table
// being keyed by the email as typed at signup.
type Manager struct {
	store  domain.KVStore
	logger *zerolog.Logger

	mu      sync.RWMutex
	current *models.User
}

func NewManager(store domain.KVStore, logger *zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Current returns a copy of the authenticated user, or false when anonymous.
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return models.User{}, false
	}
	return *m.current, true
}

// Signup creates a new account and signs it in. Fails with
// domain.ErrDuplicateEmail when the email already has an entry; the stored
// table is left untouched in that case.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	users, err := m.loadUserTable(ctx)
	if err != nil {
		return models.User{}, err
	}

	if _, exists := users[email]; exists {
		return models.User{}, domain.ErrDuplicateEmail
	}

	user := models.User{
		ID:       models.NewTimeID(),
		Name:     name,
		Email:    email,
		Password: password,
	}
	users[email] = user

	if err := m.saveUserTable(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := m.setCurrent(ctx, user); err != nil {
		return models.User{}, err
	}

	// A fresh account starts with an empty booking list.
	if err := m.store.Set(ctx, bookingsKey(user.ID), "[]"); err != nil {
		return models.User{}, fmt.Errorf("init booking list: %w", err)
	}

	m.logger.Info().Int64("user_id", user.ID).Msg("user signed up")
	return user, nil
}

// Login signs in the account matching both email and password exactly.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	users, err := m.loadUserTable(ctx)
	if err != nil {
		return models.User{}, err
	}

	user, ok := users[email]
	if !ok || user.Password != password {
		return models.User{}, domain.ErrInvalidCredentials
	}

	if err := m.setCurrent(ctx, user); err != nil {
		return models.User{}, err
	}

	m.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return user, nil
}

// Logout clears the current user and the persisted pointer.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Remove(ctx, models.KeyCurrentUser); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	return nil
}

// Restore re-hydrates the session from the persisted pointer, if any.
// Trust-on-read: no credentials are re-checked.
func (m *Manager) Restore(ctx context.Context) (models.User, bool, error) {
	raw, ok, err := m.store.Get(ctx, models.KeyCurrentUser)
	if err != nil {
		return models.User{}, false, fmt.Errorf("read current user: %w", err)
	}
	if !ok {
		return models.User{}, false, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, false, fmt.Errorf("decode current user: %w", err)
	}

	m.mu.Lock()
	m.current = &user
	m.mu.Unlock()

	m.logger.Info().Int64("user_id", user.ID).Msg("session restored")
	return user, true, nil
}

func (m *Manager) setCurrent(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := m.store.Set(ctx, models.KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("persist current user: %w", err)
	}

	m.mu.Lock()
	u := user
	m.current = &u
	m.mu.Unlock()
	return nil
}

func (m *Manager) loadUserTable(ctx context.Context) (map[string]models.User, error) {
	raw, ok, err := m.store.Get(ctx, models.KeyUserTable)
	if err != nil {
		return nil, fmt.Errorf("read user table: %w", err)
	}
	if !ok {
		return make(map[string]models.User), nil
	}

	users := make(map[string]models.User)
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode user table: %w", err)
	}
	return users, nil
}

func (m *Manager) saveUserTable(ctx context.Context, users map[string]models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode user table: %w", err)
	}
	if err := m.store.Set(ctx, models.KeyUserTable, string(data)); err != nil {
		return fmt.Errorf("persist user table: %w", err)
	}
	return nil
}

func bookingsKey(userID int64) string {
	return fmt.Sprintf("%s%d", models.KeyBookingsPrefix, userID)
}
