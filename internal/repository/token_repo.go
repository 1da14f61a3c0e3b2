package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"herbal-store/internal/model"
)

// TokenRepository persists hashed refresh tokens. The token_hash primary key
// doubles as the reverse index that resolves a presented token to its owner
// without scanning users.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create stores a new refresh token record. In the same transaction it prunes
// the owner's expired records and evicts the oldest live ones so that after
// the insert the user holds at most maxSessions tokens.
func (r *TokenRepository) Create(ctx context.Context, rec model.RefreshTokenRecord, maxSessions int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin token insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1 AND expires_at <= now()`, rec.UserID)
	if err != nil {
		return fmt.Errorf("prune expired tokens: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM refresh_tokens
		 WHERE user_id = $1 AND token_hash NOT IN (
		     SELECT token_hash FROM refresh_tokens
		     WHERE user_id = $1
		     ORDER BY created_at DESC
		     LIMIT $2
		 )`, rec.UserID, maxSessions-1)
	if err != nil {
		return fmt.Errorf("evict oldest tokens: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, user_agent, ip, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.TokenHash, rec.UserID, rec.UserAgent, rec.IP, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit token insert: %w", err)
	}
	return nil
}

// Consume atomically deletes a live record by hash and returns its owner.
// The single conditional DELETE is the rotation contract: a token is spent
// exactly once, even under concurrent refresh attempts.
func (r *TokenRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM refresh_tokens
		 WHERE token_hash = $1 AND expires_at > now()
		 RETURNING user_id`, tokenHash).Scan(&userID)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

// Remove deletes a record by hash regardless of expiry. Idempotent.
func (r *TokenRepository) Remove(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("remove refresh token: %w", err)
	}
	return nil
}

// RemoveAll clears every record for a user. Idempotent.
func (r *TokenRepository) RemoveAll(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove all refresh tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
