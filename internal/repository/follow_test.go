package repository

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Follow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))

	exists, err := repo.Exists(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("Idempotent", func(t *testing.T) {
		// A second follow of the same author must not error or add a row.
		require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", reader.ID, author.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("DirectionMatters", func(t *testing.T) {
		exists, err := repo.Exists(ctx, author.ID, reader.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestFollowRepository_Unfollow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))
	require.NoError(t, repo.Unfollow(ctx, reader.ID, author.ID))

	exists, err := repo.Exists(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Unfollowing again is a no-op.
	require.NoError(t, repo.Unfollow(ctx, reader.ID, author.ID))
}

func TestFollowRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "popular")
	fan1 := createUser(t, db, "fan1")
	fan2 := createUser(t, db, "fan2")

	require.NoError(t, repo.Follow(ctx, fan1.ID, author.ID))
	require.NoError(t, repo.Follow(ctx, fan2.ID, author.ID))
	require.NoError(t, repo.Follow(ctx, fan1.ID, fan2.ID))

	followers, err := repo.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)

	following, err := repo.CountFollowing(ctx, fan1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), following)
}
