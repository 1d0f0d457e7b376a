package shared

import "fmt"

// Asynq task types
const (
	TypePostProcess      = "post:process"
	TypeScheduledPublish = "post:scheduled_publish"
	TypeMediaSync        = "post:media_sync"
	TypeSyncAudit        = "post:sync_audit"
)

// Queue names by priority
const (
	QueuePublish     = "high"
	QueueDefault     = "default"
	QueueMaintenance = "low"
)

// PostProcessPayload carries the publish pipeline input
type PostProcessPayload struct {
	PostID string `json:"postId"`
}

// ScheduledPublishPayload carries the delayed publish input
type ScheduledPublishPayload struct {
	PostID string `json:"postId"`
}

// MediaSyncPayload carries the media-reference resync input
type MediaSyncPayload struct {
	PostID string `json:"postId"`
}

// SyncAuditPayload carries the nightly audit input
type SyncAuditPayload struct {
	Limit int `json:"limit"`
}

// ScheduledPublishTaskID derives the asynq task ID for a post's delayed
// publish. Deterministic per post, so re-scheduling naturally supersedes
// an earlier schedule.
func ScheduledPublishTaskID(postID string) string {
	return fmt.Sprintf("post-%s-scheduled", postID)
}
