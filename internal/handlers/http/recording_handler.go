package http

import (
	"net/http"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
	"mediroom/internal/infrastructure/monitoring"
	"mediroom/pkg/errors"

	"github.com/gin-gonic/gin"
)

type RecordingHandler struct {
	recordingService ports.RecordingService
	metrics          *monitoring.PrometheusCollector
}

func NewRecordingHandler(recordingService ports.RecordingService, metrics *monitoring.PrometheusCollector) *RecordingHandler {
	return &RecordingHandler{
		recordingService: recordingService,
		metrics:          metrics,
	}
}

func (h *RecordingHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/recording")
	{
		api.POST("/start", h.StartRecording)
		api.POST("/stop", h.StopRecording)
	}
}

type startRecordingRequest struct {
	RoomName string `json:"roomName"`
}

type stopRecordingRequest struct {
	RoomName string `json:"roomName"`
	EgressID string `json:"egressId"`
}

func (h *RecordingHandler) StartRecording(c *gin.Context) {
	var req startRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	recording, err := h.recordingService.StartRecording(c.Request.Context(), domain.RoomName(req.RoomName))
	if err != nil {
		if h.metrics != nil {
			if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeUpstreamUnavailable {
				h.metrics.RecordEgressFailure()
			}
		}
		c.Error(err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRecordingStarted()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"egressId": recording.EgressID,
		"message":  "Recording started successfully",
	})
}

func (h *RecordingHandler) StopRecording(c *gin.Context) {
	var req stopRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	if err := h.recordingService.StopRecording(c.Request.Context(), domain.RoomName(req.RoomName), req.EgressID); err != nil {
		if h.metrics != nil {
			if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeUpstreamUnavailable {
				h.metrics.RecordEgressFailure()
			}
		}
		c.Error(err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRecordingStopped()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recording stopped successfully",
	})
}
