package ports

import (
	"context"
	"time"

	"mediroom/internal/core/domain"
)

// TokenResponse is what a joining client needs: the signed credential plus
// routing information for the media server.
type TokenResponse struct {
	Token      string          `json:"token"`
	RoomName   domain.RoomName `json:"roomName"`
	LiveKitURL string          `json:"livekitUrl"`
}

// TokenService translates a join intent into a platform-verifiable
// credential. It keeps no session state of its own.
type TokenService interface {
	IssueToken(ctx context.Context, req domain.JoinRequest) (*TokenResponse, error)
}

// RecordingService proxies recording control to the platform's egress API.
type RecordingService interface {
	StartRecording(ctx context.Context, roomName domain.RoomName) (*domain.Recording, error)
	StopRecording(ctx context.Context, roomName domain.RoomName, egressID string) error
}

// SessionService tracks issued credentials for the specialist dashboard.
type SessionService interface {
	Track(ctx context.Context, session *domain.Session) error
	ListActive(ctx context.Context) ([]*domain.Session, error)
	Stats(ctx context.Context) (*domain.SessionStats, error)
}

// Grant is the set of capabilities embedded in a credential for one room.
type Grant struct {
	Room         domain.RoomName
	RoomJoin     bool
	RoomRecord   bool
	CanPublish   bool
	CanSubscribe bool
}

// TokenSigner is the credential-signing primitive. Metadata is an opaque
// JSON blob embedded in the credential for the platform to hand back to
// other participants.
type TokenSigner interface {
	Sign(ctx context.Context, identity domain.Identity, metadata string, ttl time.Duration, grant Grant) (string, error)
}

// EgressClient talks to the platform's egress API.
type EgressClient interface {
	StartRoomComposite(ctx context.Context, roomName domain.RoomName, layout, filePath string) (string, error)
	StopEgress(ctx context.Context, egressID string) error
}
