package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogcms-backend/internal/domains/post/model"
	pkgcache "blogcms-backend/pkg/cache"
)

// ============================================
// IN-MEMORY CACHE
// ============================================

// memoryCache mirrors the Redis implementation: values are stored as JSON
// strings, counters as plain integers.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memoryCache) GetRaw(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	return raw, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = string(raw)
	c.mu.Unlock()
	return nil
}

// setRaw plants an arbitrary payload, bypassing marshaling (corruption tests)
func (c *memoryCache) setRaw(key, raw string) {
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *memoryCache) Increment(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := strconv.ParseInt(c.data[key], 10, 64)
	current++
	c.data[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// ============================================
// FAKE REPOSITORY
// ============================================

type fakeRepo struct {
	mu      sync.Mutex
	posts   map[uuid.UUID]*model.Post
	tags    map[uuid.UUID]model.Tag
	related map[uuid.UUID][]uuid.UUID
	media   map[uuid.UUID][]model.MediaRef
	deleted []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:   map[uuid.UUID]*model.Post{},
		tags:    map[uuid.UUID]model.Tag{},
		related: map[uuid.UUID][]uuid.UUID{},
		media:   map[uuid.UUID][]model.MediaRef{},
	}
}

func (r *fakeRepo) add(p model.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := p
	r.posts[p.ID] = &clone
}

func (r *fakeRepo) get(id uuid.UUID) model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.posts[id]
}

// publicSorted returns public posts in feed order: published_at DESC, id DESC
func (r *fakeRepo) publicSorted(visibleBefore time.Time) []model.Post {
	out := []model.Post{}
	for _, p := range r.posts {
		if p.IsPublic(visibleBefore) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(*out[j].PublishedAt) {
			return out[i].PublishedAt.After(*out[j].PublishedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r *fakeRepo) GetPostsCursor(ctx context.Context, cursor *uuid.UUID, limit int, tagName string, visibleBefore time.Time) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed := r.publicSorted(visibleBefore)
	if tagName != "" {
		filtered := []model.Post{}
		for _, p := range feed {
			for _, t := range p.Tags {
				if t.Name == tagName {
					filtered = append(filtered, p)
					break
				}
			}
		}
		feed = filtered
	}

	start := 0
	if cursor != nil {
		found := false
		for i, p := range feed {
			if p.ID == *cursor {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			// Cursor post vanished from the feed; keyset yields nothing
			return []model.Post{}, nil
		}
	}

	end := start + limit
	if end > len(feed) {
		end = len(feed)
	}
	return feed[start:end], nil
}

func (r *fakeRepo) FindPostBySlug(ctx context.Context, slug string, publicOnly bool, visibleBefore time.Time) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug != slug {
			continue
		}
		if publicOnly && !p.IsPublic(visibleBefore) {
			return nil, model.ErrPostNotFound
		}
		clone := *p
		return &clone, nil
	}
	return nil, model.ErrPostNotFound
}

func (r *fakeRepo) FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepo) GetRelatedPostIDs(ctx context.Context, postID uuid.UUID, limit int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.related[postID]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *fakeRepo) GetPublicPostsByIDs(ctx context.Context, ids []uuid.UUID, visibleBefore time.Time) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Post{}
	for _, id := range ids {
		if p, ok := r.posts[id]; ok && p.IsPublic(visibleBefore) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) InsertPost(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakeRepo) UpdatePost(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return model.ErrPostNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakeRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(r.posts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRepo) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) FindSimilarSlugs(ctx context.Context, baseSlug string, excludeID *uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, p := range r.posts {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.HasPrefix(p.Slug, baseSlug+"-") {
			out = append(out, p.Slug)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetPosts(ctx context.Context, filter *model.AdminPostFilter) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Post{}
	for _, p := range r.posts {
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeRepo) GetPostsCount(ctx context.Context, filter *model.AdminPostFilter) (int, error) {
	posts, _ := r.GetPosts(ctx, filter)
	return len(posts), nil
}

func (r *fakeRepo) ListPublishedPostIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uuid.UUID{}
	for _, p := range r.posts {
		if p.Status == model.StatusPublished {
			out = append(out, p.ID)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Tag{}
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ReplaceMediaRefs(ctx context.Context, postID uuid.UUID, refs []model.MediaRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[postID] = refs
	return nil
}

func (r *fakeRepo) GetMediaRefs(ctx context.Context, postID uuid.UUID) ([]model.MediaRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.media[postID], nil
}

// ============================================
// FAKE COLLABORATORS
// ============================================

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]string
	deleted []uuid.UUID
	hits    []model.SearchHit
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: map[uuid.UUID]string{}}
}

func (f *fakeSearch) Index(ctx context.Context, postID uuid.UUID, title, plainText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[postID] = plainText
	return nil
}

func (f *fakeSearch) Delete(ctx context.Context, postID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, postID)
	return nil
}

func (f *fakeSearch) Search(ctx context.Context, query string, limit int) ([]model.SearchHit, error) {
	return f.hits, nil
}

func (f *fakeSearch) deletedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID{}, f.deleted...)
}

type fakeWorkflows struct {
	mu        sync.Mutex
	processed []uuid.UUID
	scheduled []scheduledCall
	cancelled []uuid.UUID
	mediaSync []uuid.UUID
}

type scheduledCall struct {
	postID uuid.UUID
	at     time.Time
}

func (f *fakeWorkflows) EnqueuePostProcess(ctx context.Context, postID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, postID)
	return nil
}

func (f *fakeWorkflows) SchedulePublish(ctx context.Context, postID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, scheduledCall{postID: postID, at: at})
	return nil
}

func (f *fakeWorkflows) CancelScheduledPublish(ctx context.Context, postID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, postID)
	return nil
}

func (f *fakeWorkflows) EnqueueMediaSync(ctx context.Context, postID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mediaSync = append(f.mediaSync, postID)
	return nil
}

func (f *fakeWorkflows) mediaSyncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mediaSync)
}

type fakePurger struct {
	mu     sync.Mutex
	purged []string
}

func (f *fakePurger) PurgePost(ctx context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, slug)
	return nil
}

func (f *fakePurger) purgedSlugs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.purged...)
}

type fakeMedia struct {
	mu      sync.Mutex
	missing map[string]bool
	objects map[string]string // key -> content type
}

func (f *fakeMedia) ObjectExists(ctx context.Context, mediaURL string) (bool, error) {
	return !f.missing[mediaURL], nil
}

func (f *fakeMedia) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = contentType
	return "http://cdn.local/blog-media/" + key, nil
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeMedia) storedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fakeSummarizer struct {
	enabled bool
	text    string
	err     error
	calls   int
}

func (f *fakeSummarizer) Enabled() bool { return f.enabled }

func (f *fakeSummarizer) Summarize(ctx context.Context, plainText string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// ============================================
// FIXTURE WIRING
// ============================================

type serviceFixture struct {
	svc        *PostService
	repo       *fakeRepo
	search     *fakeSearch
	cache      *memoryCache
	workflows  *fakeWorkflows
	purger     *fakePurger
	media      *fakeMedia
	summarizer *fakeSummarizer
	now        time.Time
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:       newFakeRepo(),
		search:     newFakeSearch(),
		cache:      newMemoryCache(),
		workflows:  &fakeWorkflows{},
		purger:     &fakePurger{},
		media:      &fakeMedia{missing: map[string]bool{}},
		summarizer: &fakeSummarizer{},
		now:        time.Date(2025, 6, 15, 10, 30, 42, 0, time.UTC),
	}

	versions := pkgcache.NewVersions(f.cache)
	f.svc = NewPostService(f.repo, f.search, f.cache, versions, f.workflows, f.summarizer, f.purger, f.media)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *serviceFixture) seedPublished(title string, publishedOffset time.Duration) model.Post {
	at := f.now.Add(publishedOffset)
	post := model.Post{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slugForTest(title),
		Status:      model.StatusPublished,
		Content:     json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"body"}]}]}`),
		PublishedAt: &at,
		CreatedAt:   f.now.Add(-24 * time.Hour),
		UpdatedAt:   f.now.Add(-time.Hour),

		ReadTimeMinutes: 1,
	}
	f.repo.add(post)
	return post
}

func (f *serviceFixture) seedDraft(title string) model.Post {
	post := model.Post{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slugForTest(title),
		Status:    model.StatusDraft,
		Content:   json.RawMessage(`{"type":"doc"}`),
		CreatedAt: f.now.Add(-24 * time.Hour),
		UpdatedAt: f.now.Add(-time.Hour),

		ReadTimeMinutes: 1,
	}
	f.repo.add(post)
	return post
}

func slugForTest(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

func strPtr(s string) *string { return &s }

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mustJSON: %v", err))
	}
	return raw
}
