package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cache namespaces with a version counter
const (
	nsPostList   = "posts:list"
	nsPostDetail = "posts:detail"
)

const (
	listCacheTTL    = 7 * 24 * time.Hour
	detailCacheTTL  = 7 * 24 * time.Hour
	relatedCacheTTL = 7 * 24 * time.Hour

	// Sync hashes must outlive the content they describe long enough for
	// the admin UI to notice drift, but a leftover should eventually expire
	syncHashTTL = 30 * 24 * time.Hour
)

func listKey(version int64, limit int, cursor, tag string) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s", nsPostList, version, limit, cursor, tag)
}

func detailKey(version int64, slug string) string {
	return fmt.Sprintf("%s:%d:%s", nsPostDetail, version, slug)
}

// Related IDs are deliberately version-independent: related-ness changes
// slowly, and stage 2 re-validates every ID against the database anyway
func relatedKey(slug string, limit int) string {
	return fmt.Sprintf("posts:related:%s:%d", slug, limit)
}

func syncHashKey(id uuid.UUID) string {
	return fmt.Sprintf("posts:sync-hash:%s", id)
}
