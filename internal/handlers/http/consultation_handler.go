package http

import (
	"net/http"

	"mediroom/internal/core/ports"
	"mediroom/internal/infrastructure/monitoring"
	"mediroom/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ConsultationHandler serves the specialist dashboard's session views.
type ConsultationHandler struct {
	sessionService ports.SessionService
	metrics        *monitoring.PrometheusCollector
}

func NewConsultationHandler(sessionService ports.SessionService, metrics *monitoring.PrometheusCollector) *ConsultationHandler {
	return &ConsultationHandler{
		sessionService: sessionService,
		metrics:        metrics,
	}
}

func (h *ConsultationHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/consultations")
	{
		api.GET("/active", h.ListActive)
		api.GET("/stats", h.Stats)
	}
}

func (h *ConsultationHandler) ListActive(c *gin.Context) {
	sessions, err := h.sessionService.ListActive(c.Request.Context())
	if err != nil {
		c.Error(errors.NewInternalError("failed to list active sessions"))
		return
	}

	if h.metrics != nil {
		h.metrics.SetActiveSessions(len(sessions))
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
	})
}

func (h *ConsultationHandler) Stats(c *gin.Context) {
	stats, err := h.sessionService.Stats(c.Request.Context())
	if err != nil {
		c.Error(errors.NewInternalError("failed to compute session stats"))
		return
	}

	if h.metrics != nil {
		h.metrics.SetActiveSessions(stats.Participants)
	}

	c.JSON(http.StatusOK, stats)
}
