package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"blogcms-backend/internal/domains/post/content"
	"blogcms-backend/internal/domains/post/model"
	"blogcms-backend/internal/domains/post/repository"
	"blogcms-backend/internal/infrastructure/ai"
	"blogcms-backend/internal/infrastructure/cdn"
	"blogcms-backend/internal/shared/utils"
	pkgcache "blogcms-backend/pkg/cache"
)

const (
	defaultListLimit    = 10
	defaultRelatedLimit = 4
	maxRelatedLimit     = 12
	defaultSearchLimit  = 10
	maxSearchLimit      = 50
	defaultAdminLimit   = 20

	// JSONB column cap; a content tree past this is a client bug
	maxContentBytes = 1 << 20

	// Upload cap for a single media object
	maxMediaBytes = 20 << 20

	deferredTimeout = 30 * time.Second
)

type PostService struct {
	repo       repository.RepositoryInterface
	search     repository.SearchRepository
	cache      pkgcache.Cache
	versions   *pkgcache.Versions
	workflows  WorkflowClient
	summarizer ai.Summarizer
	cdn        cdn.Purger
	media      MediaStore
	now        func() time.Time
}

func NewPostService(
	repo repository.RepositoryInterface,
	search repository.SearchRepository,
	cache pkgcache.Cache,
	versions *pkgcache.Versions,
	workflows WorkflowClient,
	summarizer ai.Summarizer,
	cdnPurger cdn.Purger,
	media MediaStore,
) *PostService {
	return &PostService{
		repo:       repo,
		search:     search,
		cache:      cache,
		versions:   versions,
		workflows:  workflows,
		summarizer: summarizer,
		cdn:        cdnPurger,
		media:      media,
		now:        time.Now,
	}
}

// ============================================
// PUBLIC READS
// ============================================

// ListPublicPosts returns one cursor page of published posts, cache-aside
// under the current list version.
func (s *PostService) ListPublicPosts(ctx context.Context, req model.ListPublicPostsRequest) (*model.PostListPage, error) {
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	version := s.currentVersion(ctx, nsPostList)
	key := listKey(version, req.Limit, req.Cursor, req.Tag)

	page, err := pkgcache.Fetch(ctx, s.cache, key, listCacheTTL, func(ctx context.Context) (model.PostListPage, error) {
		return s.loadListPage(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *PostService) loadListPage(ctx context.Context, req model.ListPublicPostsRequest) (model.PostListPage, error) {
	var cursor *uuid.UUID
	if req.Cursor != "" {
		id, err := uuid.Parse(req.Cursor)
		if err != nil {
			return model.PostListPage{}, model.ErrInvalidCursor
		}
		cursor = &id
	}

	posts, err := s.repo.GetPostsCursor(ctx, cursor, req.Limit, req.Tag, model.EndOfMinute(s.now()))
	if err != nil {
		return model.PostListPage{}, err
	}

	items := make([]model.PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, model.ToListItem(p))
	}

	page := model.PostListPage{Posts: items}
	// A short page is the last page; a full one may have more behind it
	if len(posts) == req.Limit {
		page.NextCursor = posts[len(posts)-1].ID.String()
	}
	return page, nil
}

// GetPostBySlug returns the public detail projection: content with
// highlighted code blocks plus the computed table of contents.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*model.PostDetail, error) {
	version := s.currentVersion(ctx, nsPostDetail)

	detail, err := pkgcache.Fetch(ctx, s.cache, detailKey(version, slug), detailCacheTTL, func(ctx context.Context) (model.PostDetail, error) {
		return s.loadPostDetail(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *PostService) loadPostDetail(ctx context.Context, slug string) (model.PostDetail, error) {
	post, err := s.repo.FindPostBySlug(ctx, slug, true, model.EndOfMinute(s.now()))
	if err != nil {
		return model.PostDetail{}, err
	}

	root, err := content.Parse(post.Content)
	if err != nil {
		return model.PostDetail{}, err
	}

	content.HighlightCodeBlocks(root)

	toc := []model.TOCEntry{}
	for _, h := range content.TableOfContents(root) {
		toc = append(toc, model.TOCEntry{Level: h.Level, Text: h.Text, Anchor: h.Anchor})
	}

	rendered, err := content.Marshal(root)
	if err != nil {
		return model.PostDetail{}, err
	}

	tags := post.Tags
	if tags == nil {
		tags = []model.Tag{}
	}

	return model.PostDetail{
		ID:              post.ID,
		Title:           post.Title,
		Slug:            post.Slug,
		Content:         rendered,
		Summary:         post.Summary,
		PublishedAt:     post.PublishedAt,
		ReadTimeMinutes: post.ReadTimeMinutes,
		Tags:            tags,
		TableOfContents: toc,
	}, nil
}

// GetRelatedPosts runs in two stages: cached candidate IDs (by shared
// tags), then a fresh visibility check against the database. A candidate
// that was unpublished or deleted since the IDs were cached is silently
// dropped rather than breaking the response.
func (s *PostService) GetRelatedPosts(ctx context.Context, slug string, limit int) ([]model.PostListItem, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	ids, err := pkgcache.Fetch(ctx, s.cache, relatedKey(slug, limit), relatedCacheTTL, func(ctx context.Context) ([]uuid.UUID, error) {
		post, err := s.repo.FindPostBySlug(ctx, slug, true, model.EndOfMinute(s.now()))
		if err != nil {
			return nil, err
		}
		return s.repo.GetRelatedPostIDs(ctx, post.ID, limit)
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.PostListItem{}, nil
	}

	posts, err := s.repo.GetPublicPostsByIDs(ctx, ids, model.EndOfMinute(s.now()))
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	// Preserve the cached relevance order
	items := []model.PostListItem{}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, model.ToListItem(p))
		}
	}
	return items, nil
}

// SearchPosts runs a full-text query over published posts
func (s *PostService) SearchPosts(ctx context.Context, query string, limit int) ([]model.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.search.Search(ctx, query, limit)
}

// ============================================
// ADMIN MUTATIONS
// ============================================

// CreatePost creates an empty draft with a unique slug derived from the title
func (s *PostService) CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	slug, err := s.generateSlug(ctx, title, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &model.Post{
		ID:              uuid.New(),
		Title:           title,
		Slug:            slug,
		Status:          model.StatusDraft,
		Content:         json.RawMessage(`{"type":"doc"}`),
		ReadTimeMinutes: 1,
		Tags:            []model.Tag{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.InsertPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a partial update. Publishing transitions hand off to
// the process workflow; edits to a live post refresh the public caches and
// leave the stored sync hash stale until the post is processed again.
func (s *PostService) UpdatePost(ctx context.Context, id uuid.UUID, req model.UpdatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Content) > maxContentBytes {
		return nil, model.ErrContentTooLarge
	}

	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasPublished := post.Status == model.StatusPublished
	contentChanged := false

	// Step 1: apply field patches
	if req.Title != nil && strings.TrimSpace(*req.Title) != post.Title {
		post.Title = strings.TrimSpace(*req.Title)
		slug, err := s.generateSlug(ctx, post.Title, &post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	if req.Content != nil && !bytes.Equal(req.Content, post.Content) {
		root, err := content.Parse(req.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidContent, err)
		}
		post.Content = req.Content
		post.ReadTimeMinutes = content.ReadTimeMinutes(content.PlainText(root))
		contentChanged = true
	}

	if req.Summary != nil {
		post.Summary = strings.TrimSpace(*req.Summary)
	}

	if req.TagIDs != nil {
		tags, err := s.resolveTags(ctx, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	publishTimeChanged := false
	if req.PublishedAt != nil {
		if post.PublishedAt == nil || !post.PublishedAt.Equal(*req.PublishedAt) {
			at := req.PublishedAt.UTC()
			post.PublishedAt = &at
			publishTimeChanged = true
		}
	}

	// Step 2: status transition
	becamePublished := false
	unpublished := false
	if req.Status != nil {
		next := model.PostStatus(*req.Status)
		if !next.Valid() {
			return nil, model.ErrInvalidStatus
		}
		becamePublished = next == model.StatusPublished && post.Status != model.StatusPublished
		unpublished = next != model.StatusPublished && post.Status == model.StatusPublished
		post.Status = next
	}

	// First publish stamps the end of the current minute, so everything
	// published within this minute becomes visible at the same instant
	if becamePublished && post.PublishedAt == nil {
		at := model.EndOfMinute(s.now())
		post.PublishedAt = &at
	}

	post.UpdatedAt = s.now()

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	// Step 3: workflow handoff + deferred cache maintenance
	if becamePublished || (publishTimeChanged && post.Status == model.StatusPublished) {
		if err := s.StartPostProcessWorkflow(ctx, post.ID); err != nil {
			// The row is saved; the admin sync state will surface the gap
			log.Error().Err(err).Str("post_id", post.ID.String()).Msg("Failed to start publish workflow")
		}
	}

	if contentChanged {
		s.runDeferred("media-sync-enqueue", func(ctx context.Context) error {
			return s.workflows.EnqueueMediaSync(ctx, post.ID)
		})
	}

	if unpublished {
		s.runDeferred("post-unpublish-cleanup", func(ctx context.Context) error {
			return s.retirePublicState(ctx, post.ID, post.Slug)
		})
	} else if wasPublished {
		// Still live: orphan cached pages so readers see the edit
		s.runDeferred("post-update-invalidate", func(ctx context.Context) error {
			if _, err := s.versions.Bump(ctx, nsPostList); err != nil {
				return err
			}
			_, err := s.versions.Bump(ctx, nsPostDetail)
			return err
		})
	}

	return post, nil
}

// DeletePost removes the row immediately and cleans up every public
// surface in the background. A draft never reached those surfaces, so it
// only drops its sync hash.
func (s *PostService) DeletePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}

	wasPublished := post.Status == model.StatusPublished
	slug := post.Slug

	s.runDeferred("post-delete-cleanup", func(ctx context.Context) error {
		if !wasPublished {
			return s.cache.Delete(ctx, syncHashKey(id))
		}
		return s.retirePublicState(ctx, id, slug)
	})

	return nil
}

// retirePublicState clears everything that makes a post publicly
// reachable: cached pages, the search index entry, the CDN copy, the sync
// hash and any pending scheduled publish. Steps are independent, so they
// run concurrently and the first failure wins.
func (s *PostService) retirePublicState(ctx context.Context, id uuid.UUID, slug string) error {
	if err := s.workflows.CancelScheduledPublish(ctx, id); err != nil {
		log.Warn().Err(err).Str("post_id", id.String()).Msg("Failed to cancel scheduled publish")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		version, err := s.versions.Get(ctx, nsPostDetail)
		if err != nil {
			return err
		}
		return s.cache.Delete(ctx, detailKey(version, slug))
	})
	g.Go(func() error {
		_, err := s.versions.Bump(ctx, nsPostList)
		return err
	})
	g.Go(func() error {
		return s.search.Delete(ctx, id)
	})
	g.Go(func() error {
		return s.cdn.PurgePost(ctx, slug)
	})
	g.Go(func() error {
		return s.cache.Delete(ctx, syncHashKey(id))
	})
	return g.Wait()
}

// UploadMedia stores a media object under a generated date-partitioned
// key and returns it with the public URL. Only the extension survives
// from the client filename, so uploads can neither collide nor traverse.
func (s *PostService) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*model.MediaUpload, error) {
	if len(data) == 0 {
		return nil, model.ErrEmptyMedia
	}
	if len(data) > maxMediaBytes {
		return nil, model.ErrMediaTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := s.now().UTC()
	key := fmt.Sprintf("posts/%04d/%02d/%s%s",
		now.Year(), int(now.Month()), uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	url, err := s.media.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Media uploaded")
	return &model.MediaUpload{Key: key, URL: url}, nil
}

// DeleteMedia removes an object from the media bucket. References in
// post content are reconciled separately by the media sync job.
func (s *PostService) DeleteMedia(ctx context.Context, key string) error {
	if err := s.media.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// ============================================
// ADMIN READS
// ============================================

// ListAdminPosts returns an offset page of posts in any status, each
// annotated with its computed sync state.
func (s *PostService) ListAdminPosts(ctx context.Context, req model.AdminListPostsRequest) ([]model.AdminPostItem, int, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = defaultAdminLimit
	}
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "updated_at"
	}
	sortDir := req.SortDir
	if sortDir == "" {
		sortDir = "desc"
	}

	filter := &model.AdminPostFilter{
		Status:  req.Status,
		Search:  req.Search,
		SortBy:  sortBy,
		SortDir: sortDir,
		Limit:   req.Limit,
		Offset:  (req.Page - 1) * req.Limit,
	}

	posts, err := s.repo.GetPosts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.GetPostsCount(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.AdminPostItem, 0, len(posts))
	for i := range posts {
		synced, err := s.isSynced(ctx, &posts[i])
		if err != nil {
			log.Warn().Err(err).Str("post_id", posts[i].ID.String()).Msg("Sync state check failed")
			synced = false
		}
		items = append(items, model.AdminPostItem{
			ID:          posts[i].ID,
			Title:       posts[i].Title,
			Slug:        posts[i].Slug,
			Status:      posts[i].Status,
			PublishedAt: posts[i].PublishedAt,
			UpdatedAt:   posts[i].UpdatedAt,
			IsSynced:    synced,
		})
	}
	return items, total, nil
}

// GetSyncState reports whether a post's public surfaces match its current row
func (s *PostService) GetSyncState(ctx context.Context, id uuid.UUID) (bool, error) {
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return false, err
	}
	return s.isSynced(ctx, post)
}

// isSynced compares against the hash stored at last processing time.
// Published: synced iff the stored hash matches the current row.
// Draft/archived: synced iff no hash lingers from an earlier publish.
func (s *PostService) isSynced(ctx context.Context, post *model.Post) (bool, error) {
	key := syncHashKey(post.ID)

	if post.Status == model.StatusPublished {
		var stored string
		found, err := s.cache.Get(ctx, key, &stored)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		return stored == model.PublicHash(post), nil
	}

	exists, err := s.cache.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ============================================
// WORKFLOWS
// ============================================

// StartPostProcessWorkflow routes a published post into processing:
// immediately when its publish time has passed, or as a delayed task that
// supersedes any earlier schedule when it lies in the future.
func (s *PostService) StartPostProcessWorkflow(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Status != model.StatusPublished {
		return model.ErrNotPublished
	}

	if post.PublishedAt == nil {
		at := model.EndOfMinute(s.now())
		post.PublishedAt = &at
		post.UpdatedAt = s.now()
		if err := s.repo.UpdatePost(ctx, post); err != nil {
			return err
		}
	}

	// A moved publish time must not leave the old schedule behind
	if err := s.workflows.CancelScheduledPublish(ctx, id); err != nil {
		log.Warn().Err(err).Str("post_id", id.String()).Msg("Failed to cancel previous schedule")
	}

	if post.PublishedAt.After(s.now()) {
		return s.workflows.SchedulePublish(ctx, id, *post.PublishedAt)
	}
	return s.workflows.EnqueuePostProcess(ctx, id)
}

// ProcessPublishedPost is the publish pipeline the worker runs: summary,
// read time, search index, sync hash, cache versions, CDN purge. Every
// step is idempotent, so a retried task simply redoes the work.
func (s *PostService) ProcessPublishedPost(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.FindPostByID(ctx, id)
	if errors.Is(err, model.ErrPostNotFound) {
		log.Info().Str("post_id", id.String()).Msg("Post deleted before processing, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if !post.IsPublic(model.EndOfMinute(s.now())) {
		log.Info().Str("post_id", id.String()).Str("status", string(post.Status)).
			Msg("Post no longer due for publication, skipping")
		return nil
	}

	root, err := content.Parse(post.Content)
	if err != nil {
		return err
	}
	plain := content.PlainText(root)

	// Best effort: a missing summary never blocks publication
	if post.Summary == "" && s.summarizer.Enabled() {
		summary, err := s.summarizer.Summarize(ctx, plain)
		if err != nil {
			log.Warn().Err(err).Str("post_id", id.String()).Msg("Summary generation failed")
		} else {
			post.Summary = summary
		}
	}

	post.ReadTimeMinutes = content.ReadTimeMinutes(plain)
	post.UpdatedAt = s.now()
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return err
	}

	if err := s.search.Index(ctx, post.ID, post.Title, plain); err != nil {
		return fmt.Errorf("index post: %w", err)
	}

	// The hash covers the row as just persisted, summary and all
	if err := s.cache.Set(ctx, syncHashKey(post.ID), model.PublicHash(post), syncHashTTL); err != nil {
		return fmt.Errorf("store sync hash: %w", err)
	}

	if _, err := s.versions.Bump(ctx, nsPostList); err != nil {
		return fmt.Errorf("bump list version: %w", err)
	}
	if _, err := s.versions.Bump(ctx, nsPostDetail); err != nil {
		return fmt.Errorf("bump detail version: %w", err)
	}

	if err := s.cdn.PurgePost(ctx, post.Slug); err != nil {
		return fmt.Errorf("cdn purge: %w", err)
	}

	log.Info().Str("post_id", id.String()).Str("slug", post.Slug).Msg("Post processed")
	return nil
}

// SyncMediaReferences rebuilds the media-reference index from the current
// content tree and reports references whose objects no longer exist.
func (s *PostService) SyncMediaReferences(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.FindPostByID(ctx, id)
	if errors.Is(err, model.ErrPostNotFound) {
		log.Info().Str("post_id", id.String()).Msg("Post deleted before media sync, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	root, err := content.Parse(post.Content)
	if err != nil {
		return err
	}

	refs := content.MediaRefs(root)
	rows := make([]model.MediaRef, 0, len(refs))
	for _, ref := range refs {
		exists, err := s.media.ObjectExists(ctx, ref.URL)
		if err != nil {
			// Unknown is not dangling; keep the reference and move on
			log.Warn().Err(err).Str("url", ref.URL).Msg("Media existence check failed")
			exists = true
		}
		if !exists {
			log.Warn().Str("post_id", id.String()).Str("url", ref.URL).Msg("Dangling media reference")
		}
		rows = append(rows, model.MediaRef{
			PostID: post.ID,
			URL:    ref.URL,
			Kind:   model.MediaRefKind(ref.Kind),
		})
	}

	return s.repo.ReplaceMediaRefs(ctx, post.ID, rows)
}

// AuditSyncStates recomputes the sync state of recently published posts
// and logs each drifted one. Returns the drift count.
func (s *PostService) AuditSyncStates(ctx context.Context, limit int) (int, error) {
	ids, err := s.repo.ListPublishedPostIDs(ctx, limit)
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, id := range ids {
		post, err := s.repo.FindPostByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("post_id", id.String()).Msg("Audit: post load failed")
			continue
		}
		synced, err := s.isSynced(ctx, post)
		if err != nil {
			log.Warn().Err(err).Str("post_id", id.String()).Msg("Audit: sync check failed")
			continue
		}
		if !synced {
			drifted++
			log.Warn().Str("post_id", id.String()).Str("slug", post.Slug).
				Msg("Audit: published post out of sync")
		}
	}

	log.Info().Int("checked", len(ids)).Int("drifted", drifted).Msg("Sync audit complete")
	return drifted, nil
}

// ============================================
// HELPERS
// ============================================

var slugSuffixDigits = `-(\d+)$`

// generateSlug normalizes the title and resolves collisions by appending
// the next free numeric suffix: "title", "title-1", "title-2", ...
// excludeID lets a post keep its own slug across title round-trips.
func (s *PostService) generateSlug(ctx context.Context, title string, excludeID *uuid.UUID) (string, error) {
	base := utils.GenerateSlug(title)
	if base == "" {
		base = "post"
	}

	exists, err := s.repo.SlugExists(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	similar, err := s.repo.FindSimilarSlugs(ctx, base, excludeID)
	if err != nil {
		return "", err
	}

	// Highest taken suffix + 1, so a sparse sequence never reuses a hole
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(base) + slugSuffixDigits)
	maxSuffix := 0
	for _, slug := range similar {
		m := pattern.FindStringSubmatch(slug)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxSuffix {
			maxSuffix = n
		}
	}
	return fmt.Sprintf("%s-%d", base, maxSuffix+1), nil
}

func (s *PostService) resolveTags(ctx context.Context, tagIDs []string) ([]model.Tag, error) {
	if len(tagIDs) == 0 {
		return []model.Tag{}, nil
	}

	seen := make(map[uuid.UUID]bool, len(tagIDs))
	ids := make([]uuid.UUID, 0, len(tagIDs))
	for _, raw := range tagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.ErrTagNotFound
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	tags, err := s.repo.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, model.ErrTagNotFound
	}
	return tags, nil
}

// currentVersion reads a namespace version, degrading to 0 when the
// counter is unreachable so reads still fall through to the database.
func (s *PostService) currentVersion(ctx context.Context, namespace string) int64 {
	version, err := s.versions.Get(ctx, namespace)
	if err != nil {
		log.Warn().Err(err).Str("namespace", namespace).Msg("Version lookup failed")
		return 0
	}
	return version
}

// runDeferred executes cleanup after the response is on its way.
// The request context is gone by then, so each task gets its own deadline.
func (s *PostService) runDeferred(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deferredTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("task", name).Msg("Deferred task failed")
		}
	}()
}
