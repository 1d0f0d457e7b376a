package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blogcms-backend/internal/domains/post/service"
	"blogcms-backend/internal/shared"
)

const defaultAuditBatch = 500

// SyncAuditHandler is the nightly drift check: it recomputes the sync
// state of recently published posts and logs every mismatch so stale
// public surfaces are caught even when no admin is looking.
type SyncAuditHandler struct {
	postService service.ServiceInterface
}

func NewSyncAuditHandler(postService service.ServiceInterface) *SyncAuditHandler {
	return &SyncAuditHandler{postService: postService}
}

func (h *SyncAuditHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SyncAuditPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SyncAudit payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = defaultAuditBatch
	}

	drifted, err := h.postService.AuditSyncStates(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("Sync audit failed")
		return fmt.Errorf("sync audit: %w", err)
	}

	if drifted > 0 {
		log.Warn().Int("drifted", drifted).Msg("Sync audit found drifted posts")
	}
	return nil
}
