package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogcms-backend/internal/domains/post/model"
)

// RepositoryInterface is the persistence contract for posts.
// Read methods take publicOnly/visibleBefore so visibility rules live in
// SQL, not sprinkled through callers.
type RepositoryInterface interface {
	GetPostsCursor(ctx context.Context, cursor *uuid.UUID, limit int, tagName string, visibleBefore time.Time) ([]model.Post, error)
	FindPostBySlug(ctx context.Context, slug string, publicOnly bool, visibleBefore time.Time) (*model.Post, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetRelatedPostIDs(ctx context.Context, postID uuid.UUID, limit int) ([]uuid.UUID, error)
	GetPublicPostsByIDs(ctx context.Context, ids []uuid.UUID, visibleBefore time.Time) ([]model.Post, error)

	InsertPost(ctx context.Context, post *model.Post) error
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	FindSimilarSlugs(ctx context.Context, baseSlug string, excludeID *uuid.UUID) ([]string, error)

	GetPosts(ctx context.Context, filter *model.AdminPostFilter) ([]model.Post, error)
	GetPostsCount(ctx context.Context, filter *model.AdminPostFilter) (int, error)
	ListPublishedPostIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error)
	ReplaceMediaRefs(ctx context.Context, postID uuid.UUID, refs []model.MediaRef) error
	GetMediaRefs(ctx context.Context, postID uuid.UUID) ([]model.MediaRef, error)
}

// SearchRepository is the search-index contract. Backed by Postgres
// full-text search; the service only knows index/delete/search.
type SearchRepository interface {
	Index(ctx context.Context, postID uuid.UUID, title, plainText string) error
	Delete(ctx context.Context, postID uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]model.SearchHit, error)
}
