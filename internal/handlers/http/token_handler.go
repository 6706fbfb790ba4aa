package http

import (
	"net/http"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
	"mediroom/internal/infrastructure/monitoring"
	"mediroom/pkg/errors"

	"github.com/gin-gonic/gin"
)

type TokenHandler struct {
	tokenService ports.TokenService
	metrics      *monitoring.PrometheusCollector
}

func NewTokenHandler(tokenService ports.TokenService, metrics *monitoring.PrometheusCollector) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		metrics:      metrics,
	}
}

func (h *TokenHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/token", h.IssueToken)
	}
}

func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req domain.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed body is a client error, not an internal one.
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	start := time.Now()
	resp, err := h.tokenService.IssueToken(c.Request.Context(), req)
	if err != nil {
		if h.metrics != nil {
			if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeTokenGeneration {
				h.metrics.RecordTokenFailure()
			}
		}
		c.Error(err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTokenIssued(req.Role, time.Since(start))
	}

	c.JSON(http.StatusOK, resp)
}
