package memory

import (
	"context"
	"sync"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
)

// Sessions are keyed by (room, identity): the same identity may hold live
// credentials in several consultations at once, and only a re-issued token
// for the same room replaces an older session.
type sessionKey struct {
	room     domain.RoomName
	identity domain.Identity
}

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*domain.Session
	issued   int64
}

func NewMemorySessionRepository() ports.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[sessionKey]*domain.Session),
	}
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[sessionKey{session.RoomName, session.Identity}] = &copied
	r.issued++
	return nil
}

func (r *MemorySessionRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]*domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		if !session.Expired(now) {
			copied := *session
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (r *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemorySessionRepository) TokensIssued(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.issued, nil
}
