package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskapp/internal/core/model/response"
	"taskapp/pkg/logger"
)

// StoragePinger is implemented by storage handles that can check their connection.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	storage string
	pinger  StoragePinger
	logger  *logger.Logger
}

// NewHealthHandler reports storage as healthy without a check when pinger is nil.
func NewHealthHandler(storage string, pinger StoragePinger, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &HealthHandler{storage: storage, pinger: pinger, logger: log}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.WarnWithTrace(ctx, "Storage health check failed", zap.String("storage", h.storage), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable", Storage: h.storage})
			return
		}
	}

	c.JSON(http.StatusOK, response.HealthResponse{Status: "ok", Storage: h.storage})
}
