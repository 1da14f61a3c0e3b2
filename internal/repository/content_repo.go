package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"herbal-store/internal/model"
)

type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) List(ctx context.Context) ([]model.ContentBlock, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, title, body, updated_at FROM content_blocks ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list content blocks: %w", err)
	}
	defer rows.Close()

	blocks := make([]model.ContentBlock, 0)
	for rows.Next() {
		var b model.ContentBlock
		if err := rows.Scan(&b.Key, &b.Title, &b.Body, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan content block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *ContentRepository) FindByKey(ctx context.Context, key string) (model.ContentBlock, error) {
	var b model.ContentBlock
	err := r.pool.QueryRow(ctx,
		`SELECT key, title, body, updated_at FROM content_blocks WHERE key = $1`, key).
		Scan(&b.Key, &b.Title, &b.Body, &b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ContentBlock{}, model.ErrContentBlockNotFound
	}
	if err != nil {
		return model.ContentBlock{}, fmt.Errorf("find content block: %w", err)
	}
	return b, nil
}

// Upsert creates the block on first write and overwrites it afterwards; the
// admin panel edits blocks by key without caring whether they exist yet.
func (r *ContentRepository) Upsert(ctx context.Context, b model.ContentBlock) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO content_blocks (key, title, body, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE
		 SET title = EXCLUDED.title, body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		b.Key, b.Title, b.Body, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert content block: %w", err)
	}
	return nil
}
