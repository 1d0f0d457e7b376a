package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogcms-backend/internal/domains/post/model"
)

// ServiceInterface is the posts business-logic contract
type ServiceInterface interface {
	// Public reads
	ListPublicPosts(ctx context.Context, req model.ListPublicPostsRequest) (*model.PostListPage, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.PostDetail, error)
	GetRelatedPosts(ctx context.Context, slug string, limit int) ([]model.PostListItem, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]model.SearchHit, error)

	// Admin mutations
	CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, req model.UpdatePostRequest) (*model.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*model.MediaUpload, error)
	DeleteMedia(ctx context.Context, key string) error

	// Admin reads
	ListAdminPosts(ctx context.Context, req model.AdminListPostsRequest) ([]model.AdminPostItem, int, error)
	GetSyncState(ctx context.Context, id uuid.UUID) (bool, error)

	// Workflow entry points (invoked by the worker and by mutations)
	StartPostProcessWorkflow(ctx context.Context, id uuid.UUID) error
	ProcessPublishedPost(ctx context.Context, id uuid.UUID) error
	SyncMediaReferences(ctx context.Context, id uuid.UUID) error
	AuditSyncStates(ctx context.Context, limit int) (int, error)
}

// WorkflowClient abstracts the task platform the service schedules onto
type WorkflowClient interface {
	EnqueuePostProcess(ctx context.Context, postID uuid.UUID) error
	SchedulePublish(ctx context.Context, postID uuid.UUID, at time.Time) error
	CancelScheduledPublish(ctx context.Context, postID uuid.UUID) error
	EnqueueMediaSync(ctx context.Context, postID uuid.UUID) error
}

// MediaStore is the object bucket behind post media: uploads from the
// editor, deletes, and existence checks for the reference sync job
type MediaStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, mediaURL string) (bool, error)
}
