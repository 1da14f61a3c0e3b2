package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"herbal-store/internal/model"
)

// CartRepository stores one implicit cart per user as rows in cart_items.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// ListForUser returns the user's cart lines joined with current product data.
// Subtotals and totals are computed in the service layer.
func (r *CartRepository) ListForUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.product_id, p.name, p.slug, p.price, p.image_url, p.in_stock, ci.quantity
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	lines := make([]model.CartLine, 0)
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Slug, &l.Price, &l.ImageURL, &l.InStock, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// AddItem inserts a line or increments the quantity of an existing one.
func (r *CartRepository) AddItem(ctx context.Context, userID string, productID string, quantity int) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id, product_id) DO UPDATE
		 SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		userID, productID, quantity, now)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID string, productID string, quantity int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3, updated_at = $4
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

// RemoveItem is idempotent; removing an absent line is not an error.
func (r *CartRepository) RemoveItem(ctx context.Context, userID string, productID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
