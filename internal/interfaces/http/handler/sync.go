package handler

import (
	"context"

	integrationapp "github.com/erp/storesync/internal/application/integration"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncTrigger starts sync runs in the background
type SyncTrigger interface {
	TriggerAsync(domain integration.SyncDomain)
	TriggerAllAsync()
}

// CheckpointManager reads and pauses per-domain checkpoints
type CheckpointManager interface {
	List(ctx context.Context) ([]*integration.SyncCheckpoint, error)
	Pause(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error)
	Resume(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error)
}

// SyncHandler exposes the sync trigger and checkpoint status endpoints.
// Triggers are fire-and-forget; run outcomes land in the checkpoints.
type SyncHandler struct {
	BaseHandler
	trigger     SyncTrigger
	checkpoints CheckpointManager
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(trigger SyncTrigger, checkpoints CheckpointManager) *SyncHandler {
	return &SyncHandler{
		trigger:     trigger,
		checkpoints: checkpoints,
	}
}

// TriggerAll starts a run of every domain in RunOrder.
// POST /sync
func (h *SyncHandler) TriggerAll(c *gin.Context) {
	h.trigger.TriggerAllAsync()

	domains := make([]string, 0, len(integration.RunOrder))
	for _, d := range integration.RunOrder {
		domains = append(domains, d.String())
	}
	logger.GetGinLogger(c).Info("Full sync triggered")
	h.Accepted(c, dto.TriggerResponse{Domains: domains, Message: "sync started"})
}

// Trigger starts a run of one domain.
// POST /sync/:domain
func (h *SyncHandler) Trigger(c *gin.Context) {
	domain, err := integration.ParseSyncDomain(c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.trigger.TriggerAsync(domain)
	logger.GetGinLogger(c).Info("Sync triggered", zap.String("domain", domain.String()))
	h.Accepted(c, dto.TriggerResponse{Domains: []string{domain.String()}, Message: "sync started"})
}

// Status lists the checkpoint of every domain that has run at least once.
// GET /sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	checkpoints, err := h.checkpoints.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]integrationapp.CheckpointResponse, 0, len(checkpoints))
	for _, cp := range checkpoints {
		resp = append(resp, integrationapp.ToCheckpointResponse(cp))
	}
	h.Success(c, resp)
}

// Pause stops scheduled and triggered runs of a domain.
// POST /sync/:domain/pause
func (h *SyncHandler) Pause(c *gin.Context) {
	h.changeState(c, h.checkpoints.Pause)
}

// Resume releases a paused domain.
// POST /sync/:domain/resume
func (h *SyncHandler) Resume(c *gin.Context) {
	h.changeState(c, h.checkpoints.Resume)
}

func (h *SyncHandler) changeState(
	c *gin.Context,
	fn func(context.Context, integration.SyncDomain) (*integration.SyncCheckpoint, error),
) {
	domain, err := integration.ParseSyncDomain(c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	checkpoint, err := fn(c.Request.Context(), domain)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Sync checkpoint state changed",
		zap.String("domain", domain.String()),
		zap.String("status", string(checkpoint.Status)),
	)
	h.Success(c, integrationapp.ToCheckpointResponse(checkpoint))
}
