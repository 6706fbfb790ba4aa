package livekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"

	"go.uber.org/zap"
)

const (
	startRoomCompositePath = "/twirp/livekit.Egress/StartRoomCompositeEgress"
	stopEgressPath         = "/twirp/livekit.Egress/StopEgress"
)

// EgressClient calls the LiveKit Egress Twirp API over HTTP. Every call is
// authorized with a freshly minted short-ttl token carrying a roomRecord
// grant; the credential is never reused across calls.
type EgressClient struct {
	baseURL    string
	httpClient *http.Client
	signer     ports.TokenSigner
	tokenTTL   time.Duration
	logger     *zap.SugaredLogger
}

func NewEgressClient(
	liveKitURL string,
	signer ports.TokenSigner,
	tokenTTL time.Duration,
	timeout time.Duration,
	logger *zap.SugaredLogger,
) *EgressClient {
	return &EgressClient{
		baseURL:    httpBaseURL(liveKitURL),
		httpClient: &http.Client{Timeout: timeout},
		signer:     signer,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// httpBaseURL maps the websocket media URL clients use onto the HTTP
// endpoint the Twirp API listens on.
func httpBaseURL(liveKitURL string) string {
	url := strings.TrimSuffix(liveKitURL, "/")
	switch {
	case strings.HasPrefix(url, "wss://"):
		return "https://" + strings.TrimPrefix(url, "wss://")
	case strings.HasPrefix(url, "ws://"):
		return "http://" + strings.TrimPrefix(url, "ws://")
	default:
		return url
	}
}

type fileOutput struct {
	Filepath string `json:"filepath"`
}

type startRoomCompositeRequest struct {
	RoomName      string     `json:"room_name"`
	Layout        string     `json:"layout"`
	AudioOnly     bool       `json:"audio_only"`
	VideoOnly     bool       `json:"video_only"`
	CustomBaseURL string     `json:"custom_base_url"`
	File          fileOutput `json:"file"`
}

type startRoomCompositeResponse struct {
	EgressID string `json:"egress_id"`
}

type stopEgressRequest struct {
	EgressID string `json:"egress_id"`
}

func (c *EgressClient) StartRoomComposite(ctx context.Context, roomName domain.RoomName, layout, filePath string) (string, error) {
	req := startRoomCompositeRequest{
		RoomName: string(roomName),
		Layout:   layout,
		File:     fileOutput{Filepath: filePath},
	}

	var resp startRoomCompositeResponse
	if err := c.post(ctx, startRoomCompositePath, roomName, req, &resp); err != nil {
		return "", err
	}
	if resp.EgressID == "" {
		return "", fmt.Errorf("egress API returned no egress_id")
	}
	return resp.EgressID, nil
}

func (c *EgressClient) StopEgress(ctx context.Context, egressID string) error {
	// StopEgress needs no room in the grant; the egress ID addresses the
	// recording and roomRecord authorizes the operation.
	return c.post(ctx, stopEgressPath, "", stopEgressRequest{EgressID: egressID}, nil)
}

func (c *EgressClient) post(ctx context.Context, path string, roomName domain.RoomName, body, out interface{}) error {
	token, err := c.signer.Sign(ctx, "egress", "", c.tokenTTL, ports.Grant{
		Room:       roomName,
		RoomRecord: true,
	})
	if err != nil {
		return fmt.Errorf("failed to sign egress token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal egress request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build egress request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("egress API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Errorw("egress API error",
			"path", path,
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return fmt.Errorf("egress API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode egress response: %w", err)
		}
	}
	return nil
}
