package ports

import (
	"context"
	"time"

	"mediroom/internal/core/domain"
)

// SessionRepository stores issued-credential sessions. Implementations must
// be safe for concurrent use; entries are short-lived (token ttl) and the
// store is advisory, never authoritative.
type SessionRepository interface {
	// Save stores the session and bumps the issued-token counter.
	Save(ctx context.Context, session *domain.Session) error

	// ListActive returns sessions whose credential has not expired yet.
	ListActive(ctx context.Context, now time.Time) ([]*domain.Session, error)

	// DeleteExpired removes sessions past their expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	// TokensIssued returns the total number of sessions ever saved.
	TokensIssued(ctx context.Context) (int64, error)
}
