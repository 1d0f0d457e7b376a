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

// ProcessPostHandler runs the publish pipeline for a post
type ProcessPostHandler struct {
	postService service.ServiceInterface
}

func NewProcessPostHandler(postService service.ServiceInterface) *ProcessPostHandler {
	return &ProcessPostHandler{postService: postService}
}

func (h *ProcessPostHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PostProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PostProcess payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("PostProcess payload has invalid post ID")
		return fmt.Errorf("parse post id: %w", err)
	}

	log.Info().Str("post_id", payload.PostID).Msg("Processing published post")

	if err := h.postService.ProcessPublishedPost(ctx, postID); err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("Failed to process post")
		return fmt.Errorf("process post: %w", err)
	}

	return nil
}
