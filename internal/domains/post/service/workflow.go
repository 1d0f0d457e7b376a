package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blogcms-backend/internal/shared"
)

// asynqWorkflowClient implements WorkflowClient on asynq
type asynqWorkflowClient struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewWorkflowClient(redisOpt asynq.RedisClientOpt) WorkflowClient {
	return &asynqWorkflowClient{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

func (w *asynqWorkflowClient) EnqueuePostProcess(ctx context.Context, postID uuid.UUID) error {
	payload, err := json.Marshal(shared.PostProcessPayload{PostID: postID.String()})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = w.client.EnqueueContext(ctx,
		asynq.NewTask(shared.TypePostProcess, payload),
		asynq.Queue(shared.QueuePublish),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue post process: %w", err)
	}
	return nil
}

// SchedulePublish enqueues the delayed publish under a task ID derived
// from the post ID, so scheduling again supersedes the previous schedule.
func (w *asynqWorkflowClient) SchedulePublish(ctx context.Context, postID uuid.UUID, at time.Time) error {
	payload, err := json.Marshal(shared.ScheduledPublishPayload{PostID: postID.String()})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(shared.ScheduledPublishTaskID(postID.String())),
		asynq.ProcessAt(at),
		asynq.Queue(shared.QueuePublish),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
	}

	task := asynq.NewTask(shared.TypeScheduledPublish, payload)

	_, err = w.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// A stale schedule survived cancellation; replace it
		if delErr := w.CancelScheduledPublish(ctx, postID); delErr != nil {
			return fmt.Errorf("replace scheduled publish: %w", delErr)
		}
		_, err = w.client.EnqueueContext(ctx, task, opts...)
	}
	if err != nil {
		return fmt.Errorf("schedule publish: %w", err)
	}
	return nil
}

// CancelScheduledPublish removes a pending delayed publish. An absent
// task (never scheduled, or already run) is not an error.
func (w *asynqWorkflowClient) CancelScheduledPublish(ctx context.Context, postID uuid.UUID) error {
	err := w.inspector.DeleteTask(shared.QueuePublish, shared.ScheduledPublishTaskID(postID.String()))
	if err == nil ||
		errors.Is(err, asynq.ErrTaskNotFound) ||
		errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("cancel scheduled publish: %w", err)
}

func (w *asynqWorkflowClient) EnqueueMediaSync(ctx context.Context, postID uuid.UUID) error {
	payload, err := json.Marshal(shared.MediaSyncPayload{PostID: postID.String()})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = w.client.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeMediaSync, payload),
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue media sync: %w", err)
	}
	return nil
}
