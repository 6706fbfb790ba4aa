package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
	"mediroom/pkg/errors"
	"mediroom/pkg/tracing"
	"mediroom/pkg/validation"

	"go.uber.org/zap"
)

type tokenService struct {
	signer     ports.TokenSigner
	sessions   ports.SessionService // Optional, can be nil
	liveKitURL string
	tokenTTL   time.Duration
	logger     *zap.SugaredLogger
}

func NewTokenService(
	signer ports.TokenSigner,
	sessions ports.SessionService, // Can be nil when session tracking is off
	liveKitURL string,
	tokenTTL time.Duration,
	logger *zap.SugaredLogger,
) ports.TokenService {
	return &tokenService{
		signer:     signer,
		sessions:   sessions,
		liveKitURL: liveKitURL,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// tokenMetadata is embedded in the credential and handed to other
// participants by the platform.
type tokenMetadata struct {
	Role domain.Role `json:"role"`
}

func (s *tokenService) IssueToken(ctx context.Context, req domain.JoinRequest) (*ports.TokenResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Role = domain.Role(strings.TrimSpace(string(req.Role)))
	req.ConsultationID = strings.TrimSpace(req.ConsultationID)

	if !req.HasRequiredFields() {
		return nil, errors.NewMissingParameterError()
	}

	if err := validation.ValidateUserID(req.UserID); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if err := validation.ValidateRole(string(req.Role)); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if err := validation.ValidateConsultationID(req.ConsultationID); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	roomName := domain.RoomNameFor(req.ConsultationID)
	identity := domain.IdentityFor(req.Role, req.UserID)

	ctx, span := tracing.TraceTokenIssue(ctx, string(roomName), string(identity))
	defer span.End()

	metadata, err := json.Marshal(tokenMetadata{Role: req.Role})
	if err != nil {
		return nil, errors.NewTokenGenerationError(err)
	}

	// Every grant is maximal (join + publish + subscribe) regardless of
	// role; capability scoping per role is a product decision still open.
	grant := ports.Grant{
		Room:         roomName,
		RoomJoin:     true,
		CanPublish:   true,
		CanSubscribe: true,
	}

	issuedAt := time.Now()
	token, err := s.signer.Sign(ctx, identity, string(metadata), s.tokenTTL, grant)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.Errorw("token generation failed",
			"room", roomName,
			"identity", identity,
			"error", err,
		)
		return nil, errors.NewTokenGenerationError(err)
	}

	if s.sessions != nil {
		session := &domain.Session{
			RoomName:       roomName,
			ConsultationID: req.ConsultationID,
			Identity:       identity,
			UserID:         req.UserID,
			Role:           req.Role,
			IssuedAt:       issuedAt,
			ExpiresAt:      issuedAt.Add(s.tokenTTL),
		}
		// Tracking is advisory; a failure must not block the join.
		if err := s.sessions.Track(ctx, session); err != nil {
			s.logger.Warnw("failed to track session", "room", roomName, "error", err)
		}
	}

	s.logger.Infow("issued access token",
		"room", roomName,
		"identity", identity,
		"ttl", s.tokenTTL,
	)

	return &ports.TokenResponse{
		Token:      token,
		RoomName:   roomName,
		LiveKitURL: s.liveKitURL,
	}, nil
}
