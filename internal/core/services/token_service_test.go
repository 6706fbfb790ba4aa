package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
	apperrors "mediroom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeSigner struct {
	calls    int
	identity domain.Identity
	metadata string
	ttl      time.Duration
	grant    ports.Grant
	err      error
}

func (f *fakeSigner) Sign(ctx context.Context, identity domain.Identity, metadata string, ttl time.Duration, grant ports.Grant) (string, error) {
	f.calls++
	f.identity = identity
	f.metadata = metadata
	f.ttl = ttl
	f.grant = grant
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("signed-token-%d", f.calls), nil
}

type fakeSessions struct {
	tracked []*domain.Session
	err     error
}

func (f *fakeSessions) Track(ctx context.Context, session *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	f.tracked = append(f.tracked, session)
	return nil
}

func (f *fakeSessions) ListActive(ctx context.Context) ([]*domain.Session, error) {
	return f.tracked, nil
}

func (f *fakeSessions) Stats(ctx context.Context) (*domain.SessionStats, error) {
	return &domain.SessionStats{}, nil
}

func newTestTokenService(t *testing.T, signer ports.TokenSigner, sessions ports.SessionService) ports.TokenService {
	t.Helper()
	return NewTokenService(signer, sessions, "ws://localhost:7880", 30*time.Minute, zaptest.NewLogger(t).Sugar())
}

func validRequest() domain.JoinRequest {
	return domain.JoinRequest{
		UserID:         "u1",
		Role:           domain.RoleDoctor,
		ConsultationID: "abc456",
	}
}

func TestIssueToken_Success(t *testing.T) {
	signer := &fakeSigner{}
	svc := newTestTokenService(t, signer, nil)

	resp, err := svc.IssueToken(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.Equal(t, "signed-token-1", resp.Token)
	assert.Equal(t, domain.RoomName("consultation-abc456"), resp.RoomName)
	assert.Equal(t, "ws://localhost:7880", resp.LiveKitURL)

	assert.Equal(t, domain.Identity("doctor:u1"), signer.identity)
	assert.JSONEq(t, `{"role":"doctor"}`, signer.metadata)
	assert.Equal(t, 30*time.Minute, signer.ttl)
	assert.Equal(t, ports.Grant{
		Room:         "consultation-abc456",
		RoomJoin:     true,
		CanPublish:   true,
		CanSubscribe: true,
	}, signer.grant)
}

func TestIssueToken_SameConsultationSameRoomDifferentIdentity(t *testing.T) {
	signer := &fakeSigner{}
	svc := newTestTokenService(t, signer, nil)

	first, err := svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "u1", Role: domain.RoleDoctor, ConsultationID: "abc456",
	})
	assert.NoError(t, err)
	firstIdentity := signer.identity

	second, err := svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "u2", Role: domain.RolePatient, ConsultationID: "abc456",
	})
	assert.NoError(t, err)

	assert.Equal(t, first.RoomName, second.RoomName)
	assert.NotEqual(t, firstIdentity, signer.identity)
}

func TestIssueToken_SameUserDifferentRolesDistinctIdentities(t *testing.T) {
	signer := &fakeSigner{}
	svc := newTestTokenService(t, signer, nil)

	_, err := svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "u1", Role: domain.RoleDoctor, ConsultationID: "abc456",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.Identity("doctor:u1"), signer.identity)

	_, err = svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "u1", Role: domain.RolePatient, ConsultationID: "abc456",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.Identity("patient:u1"), signer.identity)
}

func TestIssueToken_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  domain.JoinRequest
	}{
		{"missing userId", domain.JoinRequest{Role: "doctor", ConsultationID: "abc456"}},
		{"missing role", domain.JoinRequest{UserID: "u1", ConsultationID: "abc456"}},
		{"missing consultationId", domain.JoinRequest{UserID: "u1", Role: "doctor"}},
		{"all missing", domain.JoinRequest{}},
		{"whitespace only", domain.JoinRequest{UserID: "  ", Role: "doctor", ConsultationID: "abc456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &fakeSigner{}
			svc := newTestTokenService(t, signer, nil)

			resp, err := svc.IssueToken(context.Background(), tt.req)
			assert.Nil(t, resp)

			appErr := apperrors.GetAppError(err)
			assert.NotNil(t, appErr)
			assert.Equal(t, apperrors.ErrCodeMissingParameter, appErr.Code)
			assert.Equal(t, "Missing parameters", appErr.Message)
			assert.Equal(t, 400, appErr.HTTPStatus)

			// No credential may be issued for an invalid request.
			assert.Equal(t, 0, signer.calls)
		})
	}
}

func TestIssueToken_UnknownRoleAccepted(t *testing.T) {
	signer := &fakeSigner{}
	svc := newTestTokenService(t, signer, nil)

	resp, err := svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "u9", Role: "observer", ConsultationID: "abc456",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.RoomName("consultation-abc456"), resp.RoomName)
	assert.Equal(t, domain.Identity("observer:u9"), signer.identity)
}

func TestIssueToken_EmailStyleUserIDAccepted(t *testing.T) {
	signer := &fakeSigner{}
	svc := newTestTokenService(t, signer, nil)

	// Any non-empty strings must yield a token; ids are opaque labels.
	resp, err := svc.IssueToken(context.Background(), domain.JoinRequest{
		UserID: "user@example.com", Role: domain.RolePatient, ConsultationID: "abc456",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.Identity("patient:user@example.com"), signer.identity)
}

func TestIssueToken_SignerFailure(t *testing.T) {
	signer := &fakeSigner{err: errors.New("api secret not configured")}
	svc := newTestTokenService(t, signer, nil)

	resp, err := svc.IssueToken(context.Background(), validRequest())
	assert.Nil(t, resp)

	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeTokenGeneration, appErr.Code)
	assert.Equal(t, "Failed to generate token", appErr.Message)
	assert.Equal(t, 500, appErr.HTTPStatus)
}

func TestIssueToken_TracksSession(t *testing.T) {
	signer := &fakeSigner{}
	sessions := &fakeSessions{}
	svc := newTestTokenService(t, signer, sessions)

	before := time.Now()
	_, err := svc.IssueToken(context.Background(), validRequest())
	assert.NoError(t, err)

	assert.Len(t, sessions.tracked, 1)
	session := sessions.tracked[0]
	assert.Equal(t, domain.RoomName("consultation-abc456"), session.RoomName)
	assert.Equal(t, domain.Identity("doctor:u1"), session.Identity)
	assert.Equal(t, domain.RoleDoctor, session.Role)
	assert.WithinDuration(t, before.Add(30*time.Minute), session.ExpiresAt, 2*time.Second)
}

func TestIssueToken_TrackingFailureDoesNotBlockJoin(t *testing.T) {
	signer := &fakeSigner{}
	sessions := &fakeSessions{err: errors.New("store down")}
	svc := newTestTokenService(t, signer, sessions)

	resp, err := svc.IssueToken(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}
