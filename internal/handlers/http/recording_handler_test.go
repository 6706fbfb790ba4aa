package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/services"
	"mediroom/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type stubEgressClient struct {
	startErr error
	stopErr  error
	stopped  string
}

func (s *stubEgressClient) StartRoomComposite(ctx context.Context, roomName domain.RoomName, layout, filePath string) (string, error) {
	if s.startErr != nil {
		return "", s.startErr
	}
	return "EG_test_1", nil
}

func (s *stubEgressClient) StopEgress(ctx context.Context, egressID string) error {
	s.stopped = egressID
	return s.stopErr
}

func newRecordingRouter(t *testing.T, egress *stubEgressClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logg := zaptest.NewLogger(t).Sugar()
	recordingService := services.NewRecordingService(egress, "grid", "recordings", logg)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logg))
	NewRecordingHandler(recordingService, nil).SetupRoutes(router)
	return router
}

func TestRecordingStart_Success(t *testing.T) {
	router := newRecordingRouter(t, &stubEgressClient{})

	w := postJSON(router, "/api/recording/start", `{"roomName":"consultation-abc456"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"egressId":"EG_test_1","message":"Recording started successfully"}`, w.Body.String())
}

func TestRecordingStart_MissingRoomName(t *testing.T) {
	router := newRecordingRouter(t, &stubEgressClient{})

	w := postJSON(router, "/api/recording/start", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Room name is required"}`, w.Body.String())
}

func TestRecordingStart_UpstreamFailure(t *testing.T) {
	router := newRecordingRouter(t, &stubEgressClient{startErr: errors.New("connection refused")})

	w := postJSON(router, "/api/recording/start", `{"roomName":"consultation-abc456"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to start recording"}`, w.Body.String())
}

func TestRecordingStop_Success(t *testing.T) {
	egress := &stubEgressClient{}
	router := newRecordingRouter(t, egress)

	w := postJSON(router, "/api/recording/stop", `{"roomName":"consultation-abc456","egressId":"EG_test_1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Recording stopped successfully"}`, w.Body.String())
	assert.Equal(t, "EG_test_1", egress.stopped)
}

func TestRecordingStop_MissingIdentifiers(t *testing.T) {
	router := newRecordingRouter(t, &stubEgressClient{})

	w := postJSON(router, "/api/recording/stop", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Egress ID or room name is required"}`, w.Body.String())
}

func TestRecordingStop_UpstreamFailure(t *testing.T) {
	router := newRecordingRouter(t, &stubEgressClient{stopErr: errors.New("egress not found")})

	w := postJSON(router, "/api/recording/stop", `{"roomName":"consultation-abc456","egressId":"EG_test_1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to stop recording"}`, w.Body.String())
}
