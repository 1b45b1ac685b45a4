package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createGroup(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: title + " description"}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("Failed to create group %s: %v", slug, err)
	}
	return group
}

// createPostAt inserts a post with an explicit creation time so feed
// ordering tests do not depend on the clock resolution.
func createPostAt(t *testing.T, db *gorm.DB, authorID uint, groupID *uint, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID, GroupID: groupID, CreatedAt: at}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return post
}

func TestPostRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	group := createGroup(t, db, "Go", "go")
	post := createPostAt(t, db, author.ID, &group.ID, "hello world", time.Now())

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Text)
	assert.Equal(t, "author", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "go", got.Group.Slug)
	assert.Equal(t, 0, got.CommentsCount)

	t.Run("CountsComments", func(t *testing.T) {
		reader := createUser(t, db, "reader")
		for i := 0; i < 3; i++ {
			comment := &models.Comment{Text: fmt.Sprintf("comment %d", i), AuthorID: reader.ID, PostID: post.ID}
			require.NoError(t, db.Create(comment).Error)
		}

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.CommentsCount)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestPostRepository_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "prolific")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		createPostAt(t, db, author.ID, nil, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)

	// First page holds the 10 newest posts.
	page1, err := repo.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, "post 10", page1[0].Text)
	assert.Equal(t, "post 1", page1[9].Text)
	for i := 1; i < len(page1); i++ {
		assert.False(t, page1[i].CreatedAt.After(page1[i-1].CreatedAt))
	}

	// Second page holds the single oldest post.
	page2, err := repo.ListAll(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "post 0", page2[0].Text)
}

func TestPostRepository_ListByGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "writer")
	golang := createGroup(t, db, "Go", "go")
	rust := createGroup(t, db, "Rust", "rust")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createPostAt(t, db, author.ID, &golang.ID, "in go", base)
	createPostAt(t, db, author.ID, &rust.ID, "in rust", base.Add(time.Minute))
	createPostAt(t, db, author.ID, nil, "ungrouped", base.Add(2*time.Minute))

	posts, err := repo.ListByGroup(ctx, golang.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "in go", posts[0].Text)

	count, err := repo.CountByGroup(ctx, golang.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createPostAt(t, db, alice.ID, nil, "by alice", base)
	createPostAt(t, db, bob.ID, nil, "by bob", base.Add(time.Minute))

	posts, err := repo.ListByAuthor(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "by alice", posts[0].Text)

	count, err := repo.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepository_ListByFollowed(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	followed := createUser(t, db, "followed")
	stranger := createUser(t, db, "stranger")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createPostAt(t, db, followed.ID, nil, "from followed", base)
	createPostAt(t, db, stranger.ID, nil, "from stranger", base.Add(time.Minute))

	// Before following anyone the feed is empty.
	feed, err := posts.ListByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, follows.Follow(ctx, reader.ID, followed.ID))

	feed, err = posts.ListByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "from followed", feed[0].Text)
	assert.Equal(t, "followed", feed[0].Author.Username)

	count, err := posts.CountByFollowed(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Unfollowing removes the author's posts from the feed.
	require.NoError(t, follows.Unfollow(ctx, reader.ID, followed.ID))
	feed, err = posts.ListByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "editor")
	post := createPostAt(t, db, author.ID, nil, "original", time.Now())

	post.Text = "edited"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	require.Error(t, err)
}
