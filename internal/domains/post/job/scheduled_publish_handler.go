package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blogcms-backend/internal/domains/post/service"
	"blogcms-backend/internal/shared"
)

// ScheduledPublishHandler fires when a post's publish time arrives.
// The pipeline re-checks status and publish time itself, so a post that
// was withdrawn or rescheduled after this task was enqueued is a no-op.
type ScheduledPublishHandler struct {
	postService service.ServiceInterface
}

func NewScheduledPublishHandler(postService service.ServiceInterface) *ScheduledPublishHandler {
	return &ScheduledPublishHandler{postService: postService}
}

func (h *ScheduledPublishHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ScheduledPublishPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ScheduledPublish payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("ScheduledPublish payload has invalid post ID")
		return fmt.Errorf("parse post id: %w", err)
	}

	log.Info().Str("post_id", payload.PostID).Msg("Scheduled publish due")

	if err := h.postService.ProcessPublishedPost(ctx, postID); err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("Scheduled publish failed")
		return fmt.Errorf("scheduled publish: %w", err)
	}

	return nil
}
