package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ============================================
// REQUESTS
// ============================================

// ListPublicPostsRequest - cursor-paginated public listing
type ListPublicPostsRequest struct {
	Cursor string `form:"cursor"` // last-seen post ID, empty for first page
	Limit  int    `form:"limit"`
	Tag    string `form:"tag"`
}

func (r ListPublicPostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit, validation.Min(1), validation.Max(50)),
		validation.Field(&r.Cursor, validation.By(optionalUUID)),
	)
}

// AdminListPostsRequest - offset-paginated admin listing
type AdminListPostsRequest struct {
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	Status  string `form:"status"`
	Search  string `form:"search"`
	SortBy  string `form:"sort_by"`  // updated_at, published_at, title
	SortDir string `form:"sort_dir"` // asc, desc
}

func (r AdminListPostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(1)),
		validation.Field(&r.Limit, validation.Min(1), validation.Max(100)),
		validation.Field(&r.Status, validation.In("", "draft", "published", "archived")),
		validation.Field(&r.SortBy, validation.In("", "updated_at", "published_at", "title", "created_at")),
		validation.Field(&r.SortDir, validation.In("", "asc", "desc")),
	)
}

// CreatePostRequest creates an empty draft
type CreatePostRequest struct {
	Title string `json:"title"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

// UpdatePostRequest is a partial update; nil pointers leave fields alone.
// A future PublishedAt on a published post schedules its publication.
type UpdatePostRequest struct {
	Title       *string         `json:"title"`
	Content     json.RawMessage `json:"content"`
	Summary     *string         `json:"summary"`
	Status      *string         `json:"status"`
	TagIDs      *[]string       `json:"tagIds"`
	PublishedAt *time.Time      `json:"publishedAt"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In("draft", "published", "archived")),
	)
}

func optionalUUID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return ErrInvalidCursor
	}
	return nil
}

// AdminPostFilter is the repository-level filter built from an admin
// listing request
type AdminPostFilter struct {
	Status  string
	Search  string
	SortBy  string
	SortDir string
	Limit   int
	Offset  int
}

// ============================================
// RESPONSES
// ============================================

// PostListItem is the listing projection (no content body)
type PostListItem struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Summary         string     `json:"summary"`
	PublishedAt     *time.Time `json:"publishedAt"`
	ReadTimeMinutes int        `json:"readTimeMinutes"`
	Tags            []Tag      `json:"tags"`
}

// PostListPage is the cursor page stored in cache as one unit
type PostListPage struct {
	Posts      []PostListItem `json:"posts"`
	NextCursor string         `json:"nextCursor"`
}

// TOCEntry is one table-of-contents row computed from the content tree
type TOCEntry struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// PostDetail is the public detail projection: highlighted content plus TOC
type PostDetail struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Content         json.RawMessage `json:"content"`
	Summary         string          `json:"summary"`
	PublishedAt     *time.Time      `json:"publishedAt"`
	ReadTimeMinutes int             `json:"readTimeMinutes"`
	Tags            []Tag           `json:"tags"`
	TableOfContents []TOCEntry      `json:"tableOfContents"`
}

// AdminPostItem is the admin listing projection, with sync state
type AdminPostItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	IsSynced    bool       `json:"isSynced"`
}

// MediaUpload reports where an uploaded object landed
type MediaUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// SearchHit is one public full-text search result
type SearchHit struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Rank  float64   `json:"rank"`
}

// ============================================
// MAPPERS
// ============================================

func ToListItem(p Post) PostListItem {
	tags := p.Tags
	if tags == nil {
		tags = []Tag{}
	}
	return PostListItem{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Summary:         p.Summary,
		PublishedAt:     p.PublishedAt,
		ReadTimeMinutes: p.ReadTimeMinutes,
		Tags:            tags,
	}
}
