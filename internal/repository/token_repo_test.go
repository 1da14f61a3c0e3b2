package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"herbal-store/internal/database"
	"herbal-store/internal/model"
)

// These tests run against a throwaway Postgres database and are skipped unless
// TEST_DATABASE_URL is set. They pin the SQL-level invariants the service
// fakes only mirror: the session-cap eviction on Create and the conditional
// single-use DELETE behind Consume.

func newTokenRepo(t *testing.T) (*TokenRepository, *database.DB, string) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'customer', $5, $5)`,
		userID, "Token Tester", userID+"@example.com", "unused", now)
	require.NoError(t, err)
	t.Cleanup(func() {
		// Cascades to any refresh_tokens rows the test left behind.
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, userID)
	})

	return NewTokenRepository(db.Pool), db, userID
}

func tokenRecord(userID, hash string, createdAt, expiresAt time.Time) model.RefreshTokenRecord {
	return model.RefreshTokenRecord{
		TokenHash: hash,
		UserID:    userID,
		UserAgent: "test-agent",
		IP:        "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

func liveHashes(t *testing.T, db *database.DB, userID string) []string {
	t.Helper()
	rows, err := db.Pool.Query(context.Background(),
		`SELECT token_hash FROM refresh_tokens WHERE user_id = $1 ORDER BY created_at`, userID)
	require.NoError(t, err)
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		require.NoError(t, rows.Scan(&h))
		hashes = append(hashes, h)
	}
	require.NoError(t, rows.Err())
	return hashes
}

func TestTokenRepositoryCreateEvictsOldest(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	var all []string
	for i := 0; i < 7; i++ {
		hash := uuid.NewString()
		all = append(all, hash)
		rec := tokenRecord(userID, hash, base.Add(time.Duration(i)*time.Minute), base.Add(24*time.Hour))
		require.NoError(t, repo.Create(ctx, rec, 5))
	}

	kept := liveHashes(t, db, userID)
	require.Len(t, kept, 5)
	// The two oldest sessions were evicted; the five newest survive in order.
	require.Equal(t, all[2:], kept)
}

func TestTokenRepositoryCreatePrunesExpired(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := tokenRecord(userID, uuid.NewString(), now.Add(-48*time.Hour), now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, stale, 5))

	fresh := tokenRecord(userID, uuid.NewString(), now, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, fresh, 5))

	kept := liveHashes(t, db, userID)
	require.Equal(t, []string{fresh.TokenHash}, kept)
}

func TestTokenRepositoryConsumeIsSingleUse(t *testing.T) {
	repo, _, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := tokenRecord(userID, uuid.NewString(), now, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, rec, 5))

	owner, err := repo.Consume(ctx, rec.TokenHash)
	require.NoError(t, err)
	require.Equal(t, userID, owner)

	_, err = repo.Consume(ctx, rec.TokenHash)
	require.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestTokenRepositoryConsumeRefusesExpired(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := tokenRecord(userID, uuid.NewString(), now.Add(-48*time.Hour), now.Add(-time.Hour))
	// Insert directly so Create's own pruning does not remove the row first.
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, user_agent, ip, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.TokenHash, rec.UserID, rec.UserAgent, rec.IP, rec.CreatedAt, rec.ExpiresAt)
	require.NoError(t, err)

	_, err = repo.Consume(ctx, rec.TokenHash)
	require.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestTokenRepositoryRemove(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := tokenRecord(userID, uuid.NewString(), now, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, rec, 5))

	require.NoError(t, repo.Remove(ctx, rec.TokenHash))
	require.Empty(t, liveHashes(t, db, userID))

	// Removing an already-removed hash is a no-op.
	require.NoError(t, repo.Remove(ctx, rec.TokenHash))
}

func TestTokenRepositoryRemoveAll(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		rec := tokenRecord(userID, uuid.NewString(), now.Add(time.Duration(i)*time.Second), now.Add(24*time.Hour))
		require.NoError(t, repo.Create(ctx, rec, 5))
	}

	require.NoError(t, repo.RemoveAll(ctx, userID))
	require.Empty(t, liveHashes(t, db, userID))

	require.NoError(t, repo.RemoveAll(ctx, userID))
}

func TestTokenRepositoryCleanExpired(t *testing.T) {
	repo, db, userID := newTokenRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := tokenRecord(userID, uuid.NewString(), now, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, fresh, 5))

	stale := tokenRecord(userID, uuid.NewString(), now.Add(-48*time.Hour), now.Add(-time.Hour))
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, user_agent, ip, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		stale.TokenHash, stale.UserID, stale.UserAgent, stale.IP, stale.CreatedAt, stale.ExpiresAt)
	require.NoError(t, err)

	removed, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, removed, int64(1))
	require.Equal(t, []string{fresh.TokenHash}, liveHashes(t, db, userID))
}
