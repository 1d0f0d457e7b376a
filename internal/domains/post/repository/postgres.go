package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"blogcms-backend/internal/domains/post/model"
	pkgdb "blogcms-backend/pkg/database"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const postColumns = `p.id, p.title, p.slug, p.status, p.content_json, p.summary,
	p.published_at, p.read_time_minutes, p.created_at, p.updated_at`

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Status,
		&p.Content,
		&p.Summary,
		&p.PublishedAt,
		&p.ReadTimeMinutes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ============================================
// PUBLIC READS
// ============================================

// GetPostsCursor returns the next page of publicly visible posts,
// ordered newest first. The cursor is the last-seen post ID; its
// (published_at, id) tuple anchors the keyset so equal timestamps
// paginate deterministically.
func (r *postgresRepository) GetPostsCursor(ctx context.Context, cursor *uuid.UUID, limit int, tagName string, visibleBefore time.Time) ([]model.Post, error) {
	conditions := []string{
		"p.status = 'published'",
		"p.published_at <= $1",
	}
	args := []interface{}{visibleBefore}
	argIndex := 2

	if cursor != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(p.published_at, p.id) < (SELECT published_at, id FROM posts WHERE id = $%d)", argIndex))
		args = append(args, *cursor)
		argIndex++
	}

	if tagName != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.name = $%d)", argIndex))
		args = append(args, tagName)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE %s
		ORDER BY p.published_at DESC, p.id DESC
		LIMIT $%d
	`, postColumns, strings.Join(conditions, " AND "), argIndex)
	args = append(args, limit)

	posts, err := r.queryPosts(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("cursor query failed: %w", err)
	}
	return posts, nil
}

func (r *postgresRepository) FindPostBySlug(ctx context.Context, slug string, publicOnly bool, visibleBefore time.Time) (*model.Post, error) {
	conditions := []string{"p.slug = $1"}
	args := []interface{}{slug}

	if publicOnly {
		conditions = append(conditions, "p.status = 'published'", "p.published_at <= $2")
		args = append(args, visibleBefore)
	}

	query := fmt.Sprintf("SELECT %s FROM posts p WHERE %s", postColumns, strings.Join(conditions, " AND "))

	post, err := scanPost(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	if err := r.loadTags(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postgresRepository) FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts p WHERE p.id = $1", postColumns)

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	if err := r.loadTags(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// GetRelatedPostIDs ranks other published posts by shared-tag overlap,
// breaking ties by recency
func (r *postgresRepository) GetRelatedPostIDs(ctx context.Context, postID uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT p.id
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		WHERE pt.tag_id IN (SELECT tag_id FROM post_tags WHERE post_id = $1)
		  AND p.id != $1
		  AND p.status = 'published'
		GROUP BY p.id, p.published_at
		ORDER BY COUNT(*) DESC, p.published_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("related ids query failed: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan related id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetPublicPostsByIDs bulk-resolves IDs; no order guarantee, callers
// restore the order they need
func (r *postgresRepository) GetPublicPostsByIDs(ctx context.Context, ids []uuid.UUID, visibleBefore time.Time) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.id = ANY($1::uuid[])
		  AND p.status = 'published'
		  AND p.published_at <= $2
	`, postColumns)

	posts, err := r.queryPosts(ctx, query, []interface{}{pq.Array(uuidStrings(ids)), visibleBefore})
	if err != nil {
		return nil, fmt.Errorf("bulk resolve failed: %w", err)
	}
	return posts, nil
}

// ============================================
// MUTATIONS
// ============================================

func (r *postgresRepository) InsertPost(ctx context.Context, post *model.Post) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO posts (id, title, slug, status, content_json, summary,
				published_at, read_time_minutes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			post.ID, post.Title, post.Slug, post.Status, post.Content, post.Summary,
			post.PublishedAt, post.ReadTimeMinutes, post.CreatedAt, post.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return r.savePostTags(ctx, tx, post)
	})
}

func (r *postgresRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE posts
			SET title = $2, slug = $3, status = $4, content_json = $5, summary = $6,
				published_at = $7, read_time_minutes = $8, updated_at = $9
			WHERE id = $1
		`,
			post.ID, post.Title, post.Slug, post.Status, post.Content, post.Summary,
			post.PublishedAt, post.ReadTimeMinutes, post.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPostNotFound
		}
		return r.savePostTags(ctx, tx, post)
	})
}

func (r *postgresRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	// post_tags, post_media_refs and post_search_index cascade via FK
	tag, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) savePostTags(ctx context.Context, tx pgx.Tx, post *model.Post) error {
	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", post.ID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, t := range post.Tags {
		if _, err := tx.Exec(ctx,
			"INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)", post.ID, t.ID); err != nil {
			return fmt.Errorf("insert post tag: %w", err)
		}
	}
	return nil
}

// ============================================
// SLUGS
// ============================================

func (r *postgresRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != nil {
		query += " AND id != $2"
		args = append(args, *excludeID)
	}
	query += ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("slug exists check: %w", err)
	}
	return exists, nil
}

// FindSimilarSlugs returns every slug equal to base or base-<suffix>.
// The caller decides which suffixes are numeric.
func (r *postgresRepository) FindSimilarSlugs(ctx context.Context, baseSlug string, excludeID *uuid.UUID) ([]string, error) {
	query := "SELECT slug FROM posts WHERE (slug = $1 OR slug LIKE $2)"
	args := []interface{}{baseSlug, baseSlug + "-%"}
	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("similar slugs query failed: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// ============================================
// ADMIN LISTING
// ============================================

var sortColumns = map[string]string{
	"updated_at":   "p.updated_at",
	"published_at": "p.published_at",
	"created_at":   "p.created_at",
	"title":        "p.title",
}

func (r *postgresRepository) buildAdminWhere(filter *model.AdminPostFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	return strings.Join(conditions, " AND "), args
}

func (r *postgresRepository) GetPosts(ctx context.Context, filter *model.AdminPostFilter) ([]model.Post, error) {
	whereClause, args := r.buildAdminWhere(filter)

	// Sort column comes from a whitelist, never from user input directly
	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "p.updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortDir, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE %s
		ORDER BY %s %s NULLS LAST, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, whereClause, sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	posts, err := r.queryPosts(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("admin list query failed: %w", err)
	}
	return posts, nil
}

func (r *postgresRepository) GetPostsCount(ctx context.Context, filter *model.AdminPostFilter) (int, error) {
	whereClause, args := r.buildAdminWhere(filter)

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM posts p WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("admin count query failed: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) ListPublishedPostIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id FROM posts WHERE status = 'published' ORDER BY updated_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("published ids query failed: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ============================================
// TAGS & MEDIA REFS
// ============================================

func (r *postgresRepository) GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}

	rows, err := r.pool.Query(ctx,
		"SELECT id, name FROM tags WHERE id = ANY($1::uuid[])", pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("tags query failed: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ReplaceMediaRefs rebuilds the media-reference index for a post
func (r *postgresRepository) ReplaceMediaRefs(ctx context.Context, postID uuid.UUID, refs []model.MediaRef) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM post_media_refs WHERE post_id = $1", postID); err != nil {
			return fmt.Errorf("clear media refs: %w", err)
		}
		for _, ref := range refs {
			if _, err := tx.Exec(ctx,
				"INSERT INTO post_media_refs (post_id, url, kind) VALUES ($1, $2, $3)",
				postID, ref.URL, ref.Kind); err != nil {
				return fmt.Errorf("insert media ref: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresRepository) GetMediaRefs(ctx context.Context, postID uuid.UUID) ([]model.MediaRef, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT post_id, url, kind FROM post_media_refs WHERE post_id = $1", postID)
	if err != nil {
		return nil, fmt.Errorf("media refs query failed: %w", err)
	}
	defer rows.Close()

	refs := []model.MediaRef{}
	for rows.Next() {
		var ref model.MediaRef
		if err := rows.Scan(&ref.PostID, &ref.URL, &ref.Kind); err != nil {
			return nil, fmt.Errorf("scan media ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ============================================
// HELPERS
// ============================================

func (r *postgresRepository) queryPosts(ctx context.Context, query string, args []interface{}) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Slug,
			&p.Status,
			&p.Content,
			&p.Summary,
			&p.PublishedAt,
			&p.ReadTimeMinutes,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pointers := make([]*model.Post, len(posts))
	for i := range posts {
		pointers[i] = &posts[i]
	}
	if err := r.loadTags(ctx, pointers); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadTags attaches tags to posts in one round trip
func (r *postgresRepository) loadTags(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	byID := make(map[uuid.UUID]*model.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Tags = []model.Tag{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1::uuid[])
		ORDER BY t.name
	`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var tag model.Tag
		if err := rows.Scan(&postID, &tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, tag)
		}
	}
	return rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
