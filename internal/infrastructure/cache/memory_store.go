package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Haleralex/fundhub/internal/application/ports"
)

// Compile-time check
var _ ports.TokenRevocationStore = (*MemoryRevocationStore)(nil)

// MemoryRevocationStore - хранилище в памяти процесса для development и тестов,
// когда Redis выключен. Отзыв не переживает рестарт и не виден другим репликам.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore создаёт пустое хранилище.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke помечает токен отозванным на ttl.
func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiresAt := range s.revoked {
		if !expiresAt.After(now) {
			delete(s.revoked, key)
		}
	}
	s.revoked[revokedKey(token)] = now.Add(ttl)
	return nil
}

// IsRevoked проверяет, отозван ли токен.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[revokedKey(token)]
	return ok && expiresAt.After(s.now()), nil
}
