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

// MediaSyncHandler rebuilds a post's media-reference index after its
// content changed
type MediaSyncHandler struct {
	postService service.ServiceInterface
}

func NewMediaSyncHandler(postService service.ServiceInterface) *MediaSyncHandler {
	return &MediaSyncHandler{postService: postService}
}

func (h *MediaSyncHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MediaSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal MediaSync payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("MediaSync payload has invalid post ID")
		return fmt.Errorf("parse post id: %w", err)
	}

	if err := h.postService.SyncMediaReferences(ctx, postID); err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("Media sync failed")
		return fmt.Errorf("media sync: %w", err)
	}

	log.Info().Str("post_id", payload.PostID).Msg("Media references synced")
	return nil
}
