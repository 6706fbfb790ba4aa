package services

import (
	"context"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"

	"go.uber.org/zap"
)

type sessionService struct {
	repo   ports.SessionRepository
	logger *zap.SugaredLogger
}

func NewSessionService(repo ports.SessionRepository, logger *zap.SugaredLogger) ports.SessionService {
	return &sessionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *sessionService) Track(ctx context.Context, session *domain.Session) error {
	return s.repo.Save(ctx, session)
}

func (s *sessionService) ListActive(ctx context.Context) ([]*domain.Session, error) {
	now := time.Now()

	// Opportunistic cleanup; expiry filtering below is what matters.
	if n, err := s.repo.DeleteExpired(ctx, now); err != nil {
		s.logger.Warnw("failed to delete expired sessions", "error", err)
	} else if n > 0 {
		s.logger.Debugw("deleted expired sessions", "count", n)
	}

	return s.repo.ListActive(ctx, now)
}

func (s *sessionService) Stats(ctx context.Context) (*domain.SessionStats, error) {
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	rooms := make(map[domain.RoomName]struct{}, len(active))
	for _, session := range active {
		rooms[session.RoomName] = struct{}{}
	}

	issued, err := s.repo.TokensIssued(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.SessionStats{
		ActiveConsultations: len(rooms),
		Participants:        len(active),
		TokensIssued:        issued,
	}, nil
}
