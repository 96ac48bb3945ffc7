package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sync-service/internal/repositories"
	"sync-service/internal/syncer"
)

// AdminHandler exposes the operator endpoints: member injection and the
// sync-verification diagnostic.
type AdminHandler struct {
	service         SyncService
	defaultInstance string
	injectGroupJID  string
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(service SyncService, defaultInstance, injectGroupJID string) *AdminHandler {
	return &AdminHandler{
		service:         service,
		defaultInstance: defaultInstance,
		injectGroupJID:  injectGroupJID,
	}
}

// InjectMembers handles POST /api/admin/inject-members: an authoritative
// member batch whose names land at confirmed trust.
func (h *AdminHandler) InjectMembers(c *gin.Context) {
	var req struct {
		GroupJID string                   `json:"group_jid"`
		Members  []syncer.MemberInjection `json:"members" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupJID := req.GroupJID
	if groupJID == "" {
		groupJID = h.injectGroupJID
	}
	if groupJID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no target group configured"})
		return
	}

	result, err := h.service.InjectMembers(c.Request.Context(), groupJID, req.Members)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrGroupNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"processed":     result.Processed,
		"updated_names": result.UpdatedNames,
	})
}

// VerifySync handles POST /api/admin/verify-sync: compares gateway-reported
// participant count to stored membership count.
func (h *AdminHandler) VerifySync(c *gin.Context) {
	var req struct {
		GroupJID     string `json:"group_jid" binding:"required"`
		InstanceName string `json:"instance_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instance := req.InstanceName
	if instance == "" {
		instance = h.defaultInstance
	}

	result, err := h.service.VerifyGroupSync(c.Request.Context(), instance, req.GroupJID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gateway_count": result.GatewayCount,
		"db_count":      result.StoredCount,
		"status":        result.Status,
	})
}
