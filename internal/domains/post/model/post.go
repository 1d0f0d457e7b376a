package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Post is the persisted entity. Content is the rich-document tree stored
// as JSONB; it is parsed on demand, never kept decoded on the entity.
type Post struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Status          PostStatus      `json:"status"`
	Content         json.RawMessage `json:"content"`
	Summary         string          `json:"summary"`
	PublishedAt     *time.Time      `json:"publishedAt"`
	ReadTimeMinutes int             `json:"readTimeMinutes"`
	Tags            []Tag           `json:"tags"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// IsPublic reports whether the post is visible to public callers at the
// given visibility horizon (end of the current minute).
func (p *Post) IsPublic(visibleBefore time.Time) bool {
	if p.Status != StatusPublished || p.PublishedAt == nil {
		return false
	}
	return !p.PublishedAt.After(visibleBefore)
}

// EndOfMinute rounds a timestamp up to the end of its minute. Publish
// stamps and visibility cut-offs both use this, so a post scheduled
// within the current minute is uniformly visible.
func EndOfMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

// MediaRefKind classifies a media reference extracted from content
type MediaRefKind string

const (
	MediaImage MediaRefKind = "image"
	MediaVideo MediaRefKind = "video"
)

// MediaRef is one row of the media-reference index
type MediaRef struct {
	PostID uuid.UUID    `json:"postId"`
	URL    string       `json:"url"`
	Kind   MediaRefKind `json:"kind"`
}
