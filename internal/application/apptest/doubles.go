package apptest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ============================================
// FileStorage
// ============================================

var _ ports.FileStorage = (*MemStorage)(nil)

// MemStorage - FileStorage в памяти. XxxFunc переопределяют поведение.
type MemStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string

	UploadFunc func(ctx context.Context, content []byte, path, contentType string) (string, error)
	DeleteFunc func(ctx context.Context, path string) error
}

// NewMemStorage создаёт пустое хранилище.
func NewMemStorage() *MemStorage {
	return &MemStorage{Objects: map[string][]byte{}}
}

func (m *MemStorage) Upload(ctx context.Context, content []byte, path, contentType string) (string, error) {
	if m.UploadFunc != nil {
		stored, err := m.UploadFunc(ctx, content, path, contentType)
		if err != nil {
			return "", err
		}
		path = stored
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[path] = append([]byte(nil), content...)
	return path, nil
}

func (m *MemStorage) Delete(ctx context.Context, path string) error {
	if m.DeleteFunc != nil {
		if err := m.DeleteFunc(ctx, path); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, path)
	m.Deleted = append(m.Deleted, path)
	return nil
}

func (m *MemStorage) SignedURL(_ context.Context, path string) (string, error) {
	return "https://storage.test/" + path + "?signature=test", nil
}

// Has сообщает, хранится ли объект.
func (m *MemStorage) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[path]
	return ok
}

// ============================================
// PasswordHasher
// ============================================

var _ ports.PasswordHasher = PlainHasher{}

// PlainHasher - детерминированный "хеш" без криптографии.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (PlainHasher) Verify(hash, password string) (bool, error) {
	return hash == "hashed:"+password, nil
}

// ============================================
// TokenSigner
// ============================================

var _ ports.TokenSigner = (*StubSigner)(nil)

// StubSigner выдаёт непрозрачные токены и помнит их claims.
// Now управляет проверкой срока действия.
type StubSigner struct {
	mu     sync.Mutex
	tokens map[string]ports.TokenClaims
	Now    func() time.Time
}

// NewStubSigner создаёт StubSigner.
func NewStubSigner() *StubSigner {
	return &StubSigner{tokens: map[string]ports.TokenClaims{}, Now: time.Now}
}

func (s *StubSigner) Sign(claims ports.TokenClaims) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := string(claims.Type) + "." + uuid.NewString()
	s.tokens[token] = claims
	return token, nil
}

func (s *StubSigner) Verify(token string) (ports.TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.tokens[token]
	if !ok {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	if !s.Now().Before(claims.ExpiresAt) {
		return ports.TokenClaims{}, domainerrors.ErrTokenExpired
	}
	return claims, nil
}

// Forge регистрирует токен с произвольными claims (для негативных тестов).
func (s *StubSigner) Forge(claims ports.TokenClaims) string {
	token, _ := s.Sign(claims)
	return token
}

// ============================================
// TokenRevocationStore
// ============================================

var _ ports.TokenRevocationStore = (*MemRevocations)(nil)

// MemRevocations - denylist в памяти.
type MemRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

// NewMemRevocations создаёт пустой denylist.
func NewMemRevocations() *MemRevocations {
	return &MemRevocations{revoked: map[string]time.Duration{}}
}

func (m *MemRevocations) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = ttl
	return nil
}

func (m *MemRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}

// TTL возвращает TTL, с которым токен был отозван.
func (m *MemRevocations) TTL(token string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ttl, ok := m.revoked[token]
	return ttl, ok
}

