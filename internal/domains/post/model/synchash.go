package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// publicSnapshot is the canonical projection of the fields a published
// post exposes publicly. The stored hash of this snapshot is what the
// admin sync state compares against.
type publicSnapshot struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Summary         string   `json:"summary"`
	TagIDs          []string `json:"tagIds"`
	Slug            string   `json:"slug"`
	PublishedAt     string   `json:"publishedAt"`
	ReadTimeMinutes int      `json:"readTimeMinutes"`
}

// PublicHash computes a deterministic hash over the public-relevant
// fields of a post. Tag IDs are sorted so tag ordering never causes a
// spurious desync.
func PublicHash(p *Post) string {
	tagIDs := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tagIDs = append(tagIDs, tag.ID.String())
	}
	sort.Strings(tagIDs)

	publishedAt := ""
	if p.PublishedAt != nil {
		publishedAt = p.PublishedAt.UTC().Format(time.RFC3339)
	}

	snapshot := publicSnapshot{
		Title:           p.Title,
		Content:         string(p.Content),
		Summary:         p.Summary,
		TagIDs:          tagIDs,
		Slug:            p.Slug,
		PublishedAt:     publishedAt,
		ReadTimeMinutes: p.ReadTimeMinutes,
	}

	// Struct field order is fixed, so the marshaled form is canonical
	payload, _ := json.Marshal(snapshot)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
