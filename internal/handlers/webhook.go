package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sync-service/internal/syncer"
)

// WebhookHandler receives live events from the gateway.
type WebhookHandler struct {
	service SyncService
	logger  *zap.Logger
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(service SyncService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, logger: logger}
}

// HandleEvent handles POST /api/webhook/events. The gateway retries on
// non-2xx responses, so the event is acknowledged no matter what happened
// internally; failures only reach the logs.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	var event syncer.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("unreadable webhook payload", zap.Error(err))
		c.String(http.StatusOK, "OK")
		return
	}

	if err := h.service.IngestLiveEvent(c.Request.Context(), event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("event", event.Kind()),
			zap.Error(err))
	}
	c.String(http.StatusOK, "OK")
}
