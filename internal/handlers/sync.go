package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sync-service/internal/repositories"
	"sync-service/internal/syncer"
)

// SyncService is the slice of the syncer the HTTP layer depends on.
type SyncService interface {
	SyncGroupMetadata(ctx context.Context, instance string) (syncer.MetadataResult, error)
	RescueGroup(ctx context.Context, instance, groupJID string) (syncer.RescueResult, error)
	HarvestMessages(ctx context.Context, instance, groupJID string, limit, offset int) (syncer.HarvestResult, error)
	PlanFullSync(ctx context.Context, instance string) (syncer.FullSyncPlan, error)
	IngestLiveEvent(ctx context.Context, event syncer.WebhookEvent) error
	InjectMembers(ctx context.Context, groupJID string, members []syncer.MemberInjection) (syncer.InjectResult, error)
	VerifyGroupSync(ctx context.Context, instance, groupJID string) (syncer.VerifyResult, error)
}

// BatchSubmitter queues background full-sync jobs.
type BatchSubmitter interface {
	Submit(job syncer.BatchJob) error
}

// SyncHandler exposes the reconciliation passes over HTTP.
type SyncHandler struct {
	service         SyncService
	worker          BatchSubmitter
	defaultInstance string
}

// NewSyncHandler constructs a SyncHandler.
func NewSyncHandler(service SyncService, worker BatchSubmitter, defaultInstance string) *SyncHandler {
	return &SyncHandler{
		service:         service,
		worker:          worker,
		defaultInstance: defaultInstance,
	}
}

func (h *SyncHandler) instanceOrDefault(name string) string {
	if name != "" {
		return name
	}
	return h.defaultInstance
}

// SyncGroups handles POST /api/sync/groups: the metadata-only pass.
func (h *SyncHandler) SyncGroups(c *gin.Context) {
	var req struct {
		InstanceName string `json:"instance_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.SyncGroupMetadata(c.Request.Context(), h.instanceOrDefault(req.InstanceName))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"total_fetched": result.Fetched,
		"synced":        result.Synced,
	})
}

// RescueGroupMembers handles POST /api/sync/group-members: the deep
// participant sync for one group.
func (h *SyncHandler) RescueGroupMembers(c *gin.Context) {
	var req struct {
		GroupJID     string `json:"group_jid" binding:"required"`
		InstanceName string `json:"instance_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.RescueGroup(c.Request.Context(), h.instanceOrDefault(req.InstanceName), req.GroupJID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"fixed":         result.Fixed,
		"total_scanned": result.Scanned,
	})
}

// FullSync handles POST /api/sync/full: queue a background batch over every
// group and return immediately with the queued size. Completion is visible in
// logs and metrics only.
func (h *SyncHandler) FullSync(c *gin.Context) {
	var req struct {
		InstanceName string `json:"instance_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.PlanFullSync(c.Request.Context(), h.instanceOrDefault(req.InstanceName))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job := syncer.BatchJob{Instance: plan.Instance, InstanceID: plan.InstanceID, Groups: plan.Groups}
	if err := h.worker.Submit(job); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": fmt.Sprintf("Started syncing %d groups in background.", len(plan.Groups)),
	})
}

// HarvestMessages handles POST /api/sync/messages: the message-history
// harvest for one group.
func (h *SyncHandler) HarvestMessages(c *gin.Context) {
	var req struct {
		GroupJID     string `json:"group_jid" binding:"required"`
		InstanceName string `json:"instance_name"`
		Limit        int    `json:"limit"`
		Offset       int    `json:"offset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.HarvestMessages(c.Request.Context(),
		h.instanceOrDefault(req.InstanceName), req.GroupJID, req.Limit, req.Offset)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found, sync groups first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total_found": result.TotalFound,
		"saved":       result.Saved,
		"skipped":     result.Skipped,
	})
}
