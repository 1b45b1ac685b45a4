package repository

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPostAt(t, db, author.ID, nil, "discuss", time.Now())
	other := createPostAt(t, db, author.ID, nil, "quiet", time.Now())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := &models.Comment{Text: "first", AuthorID: commenter.ID, PostID: post.ID, CreatedAt: base}
	second := &models.Comment{Text: "second", AuthorID: author.ID, PostID: post.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Newest first.
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)
	assert.Equal(t, "commenter", comments[1].Author.Username)

	t.Run("OtherPostUnaffected", func(t *testing.T) {
		comments, err := repo.ListByPost(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestCommentRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	post := createPostAt(t, db, author.ID, nil, "post", time.Now())

	comment := &models.Comment{Text: "hello", AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	t.Run("Missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)
	})
}
