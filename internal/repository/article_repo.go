package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"herbal-store/internal/model"
)

// ArticleRepository backs both blog posts and news items; the two tables
// share a schema and differ only by name.
type ArticleRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool, table: "posts"}
}

func NewNewsRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool, table: "news_items"}
}

const articleColumns = `id, title, slug, excerpt, body, image_url, published, published_at, created_at, updated_at`

// List returns one page of articles, newest first. With publishedOnly set it
// restricts to published articles ordered by publication date.
func (r *ArticleRepository) List(ctx context.Context, publishedOnly bool, page int, limit int) ([]model.Article, int, error) {
	clause := ""
	order := "created_at DESC"
	if publishedOnly {
		clause = " WHERE published"
		order = "published_at DESC NULLS LAST"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+r.table+clause).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $1 OFFSET $2",
		articleColumns, r.table, clause, order)
	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0)
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body, &a.ImageURL,
			&a.Published, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, total, rows.Err()
}

func (r *ArticleRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (model.Article, error) {
	var a model.Article
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE slug = $1 OR id::text = $1", articleColumns, r.table),
		idOrSlug).
		Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body, &a.ImageURL,
			&a.Published, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Article{}, model.ErrArticleNotFound
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("find article: %w", err)
	}
	return a, nil
}

func (r *ArticleRepository) Create(ctx context.Context, a model.Article) error {
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			r.table, articleColumns),
		a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.ImageURL,
		a.Published, a.PublishedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Update(ctx context.Context, a model.Article) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s
		 SET title = $2, slug = $3, excerpt = $4, body = $5, image_url = $6,
		     published = $7, published_at = $8, updated_at = $9
		 WHERE id = $1`, r.table),
		a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.ImageURL,
		a.Published, a.PublishedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	return nil
}
