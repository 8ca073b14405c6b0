// Package session owns the signed-in user and bearer token. Both are kept in a
// durable key-value storage and mirrored in memory for cheap reads.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Storage keys. Absence of both means signed out.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Role is the user's role. The client knows a single one.
type Role string

const RoleSubcontractor Role = "subcontractor"

// User is the identity shown in the dashboard header.
type User struct {
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Storage is the durable key-value collaborator.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Repository is the session surface handed to services and screens.
type Repository interface {
	Get() *User
	Set(ctx context.Context, u *User) error
	SetRole(ctx context.Context, r Role) error
	Token() string
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Sealer protects the token at rest.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// Store implements Repository over a Storage.
type Store struct {
	storage Storage
	sealer  Sealer
	expired func(token string) bool
	log     *zap.Logger

	mu    sync.RWMutex
	user  *User
	token string
}

// Option configures a Store.
type Option func(*Store)

// WithSealer encrypts the token before it reaches storage.
func WithSealer(s Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// WithExpiry discards a rehydrated token for which expired returns true.
func WithExpiry(expired func(token string) bool) Option {
	return func(st *Store) { st.expired = expired }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.log = l
		}
	}
}

// Open rehydrates the session from storage. Unreadable entries are dropped
// from storage and treated as signed out.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	s := &Store{storage: storage, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	raw, ok, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if ok {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.log.Warn("discarding unreadable stored user", zap.Error(err))
			if err := s.storage.Delete(ctx, UserKey); err != nil {
				return fmt.Errorf("drop user: %w", err)
			}
		} else {
			s.user = &u
		}
	}

	raw, ok, err = s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return nil
	}
	token := raw
	if s.sealer != nil {
		token, err = s.sealer.Open(raw)
	}
	switch {
	case err != nil:
		s.log.Warn("discarding unreadable stored token", zap.Error(err))
	case s.expired != nil && s.expired(token):
		s.log.Info("stored token expired")
	default:
		s.token = token
		return nil
	}
	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("drop token: %w", err)
	}
	s.user = nil
	return nil
}

// Get returns a copy of the signed-in user, or nil.
func (s *Store) Get() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set stores u. A nil user removes the stored record.
func (s *Store) Set(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		if err := s.storage.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		s.user = nil
		return nil
	}
	if err := s.writeUser(ctx, *u); err != nil {
		return err
	}
	cp := *u
	s.user = &cp
	return nil
}

// SetRole changes the role of the signed-in user. It is a no-op when signed
// out.
func (s *Store) SetRole(ctx context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Role = r
	if err := s.writeUser(ctx, u); err != nil {
		return err
	}
	s.user = &u
	return nil
}

func (s *Store) writeUser(ctx context.Context, u User) error {
	buf, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(buf)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out. It satisfies
// apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores token. An empty token removes it.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		if err := s.storage.Delete(ctx, TokenKey); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		s.token = ""
		return nil
	}
	stored := token
	if s.sealer != nil {
		var err error
		if stored, err = s.sealer.Seal(token); err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
	}
	if err := s.storage.Set(ctx, TokenKey, stored); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.token = token
	return nil
}

// Clear signs out: both the user and the token are removed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, UserKey, TokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.user = nil
	s.token = ""
	return nil
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
