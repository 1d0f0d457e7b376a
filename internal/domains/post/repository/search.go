package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogcms-backend/internal/domains/post/model"
)

// postgresSearchRepository - full-text search on tsvector + GIN index
type postgresSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSearchRepository(pool *pgxpool.Pool) SearchRepository {
	return &postgresSearchRepository{pool: pool}
}

// Index upserts the searchable projection of a post. The search_vector
// column is recomputed in SQL so the index never drifts from the text.
func (r *postgresSearchRepository) Index(ctx context.Context, postID uuid.UUID, title, plainText string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_search_index (post_id, title, plain_text, search_vector)
		VALUES ($1, $2, $3,
			setweight(to_tsvector('simple', $2), 'A') ||
			setweight(to_tsvector('simple', $3), 'B'))
		ON CONFLICT (post_id) DO UPDATE SET
			title = EXCLUDED.title,
			plain_text = EXCLUDED.plain_text,
			search_vector = EXCLUDED.search_vector
	`, postID, title, plainText)
	if err != nil {
		return fmt.Errorf("index post: %w", err)
	}
	return nil
}

func (r *postgresSearchRepository) Delete(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM post_search_index WHERE post_id = $1", postID); err != nil {
		return fmt.Errorf("delete index entry: %w", err)
	}
	return nil
}

// Search ranks matches with ts_rank_cd; only published posts surface
func (r *postgresSearchRepository) Search(ctx context.Context, query string, limit int) ([]model.SearchHit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			p.id,
			p.title,
			p.slug,
			ts_rank_cd(s.search_vector, websearch_to_tsquery('simple', $1), 32) AS rank
		FROM post_search_index s
		JOIN posts p ON p.id = s.post_id
		WHERE s.search_vector @@ websearch_to_tsquery('simple', $1)
		  AND p.status = 'published'
		ORDER BY rank DESC, p.published_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	hits := []model.SearchHit{}
	for rows.Next() {
		var hit model.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Title, &hit.Slug, &hit.Rank); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
