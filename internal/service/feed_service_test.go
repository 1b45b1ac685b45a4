package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedService(db *gorm.DB) *FeedService {
	return NewFeedService(
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
	)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPosts(t *testing.T, db *gorm.DB, authorID uint, groupID *uint, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  authorID,
			GroupID:   groupID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(post).Error)
	}
}

func TestFeedService_IndexPage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	seedPosts(t, db, author.ID, nil, 11)

	page, err := svc.IndexPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 10)
	assert.Equal(t, "post 10", page.Posts[0].Text)
	assert.Equal(t, 1, page.Page.Number)
	assert.Equal(t, PageSize, page.Page.Size)
	assert.Equal(t, int64(11), page.Page.TotalCount)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.True(t, page.Page.HasNext)
	assert.False(t, page.Page.HasPrev)

	page2, err := svc.IndexPage(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 1)
	assert.Equal(t, "post 0", page2.Posts[0].Text)
	assert.False(t, page2.Page.HasNext)
	assert.True(t, page2.Page.HasPrev)
}

func TestFeedService_PageClamping(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	seedPosts(t, db, author.ID, nil, 11)

	t.Run("BelowOne", func(t *testing.T) {
		page, err := svc.IndexPage(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page.Number)
		assert.Len(t, page.Posts, 10)
	})

	t.Run("PastEnd", func(t *testing.T) {
		page, err := svc.IndexPage(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page.Number)
		assert.Len(t, page.Posts, 1)
	})

	t.Run("EmptyFeed", func(t *testing.T) {
		empty := testutil.OpenTestDB(t)
		page, err := newFeedService(empty).IndexPage(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page.Number)
		assert.Equal(t, 1, page.Page.TotalPages)
		assert.Empty(t, page.Posts)
	})
}

func TestFeedService_GroupPage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	group := &models.Group{Title: "Go", Slug: "go", Description: "Go posts"}
	require.NoError(t, db.Create(group).Error)
	seedPosts(t, db, author.ID, &group.ID, 3)
	seedPosts(t, db, author.ID, nil, 2)

	feed, err := svc.GroupPage(ctx, "go", 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", feed.Group.Title)
	assert.Len(t, feed.Posts, 3)
	assert.Equal(t, int64(3), feed.Page.TotalCount)

	t.Run("UnknownSlug", func(t *testing.T) {
		_, err := svc.GroupPage(ctx, "missing", 1)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestFeedService_ProfilePage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)
	follows := repository.NewFollowRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	seedPosts(t, db, author.ID, nil, 4)

	t.Run("Anonymous", func(t *testing.T) {
		feed, err := svc.ProfilePage(ctx, "author", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "author", feed.Author.Username)
		assert.Equal(t, int64(4), feed.PostsCount)
		assert.False(t, feed.Following)
		assert.Len(t, feed.Posts, 4)
	})

	t.Run("FollowingViewer", func(t *testing.T) {
		require.NoError(t, follows.Follow(ctx, viewer.ID, author.ID))

		feed, err := svc.ProfilePage(ctx, "author", 1, viewer.ID)
		require.NoError(t, err)
		assert.True(t, feed.Following)
	})

	t.Run("OwnProfile", func(t *testing.T) {
		feed, err := svc.ProfilePage(ctx, "author", 1, author.ID)
		require.NoError(t, err)
		assert.False(t, feed.Following)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.ProfilePage(ctx, "ghost", 1, 0)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestFeedService_FollowPage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)
	follows := repository.NewFollowRepository(db)
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	followed := seedUser(t, db, "followed")
	stranger := seedUser(t, db, "stranger")
	seedPosts(t, db, followed.ID, nil, 2)
	seedPosts(t, db, stranger.ID, nil, 2)

	page, err := svc.FollowPage(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	require.NoError(t, follows.Follow(ctx, reader.ID, followed.ID))

	page, err = svc.FollowPage(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	for _, p := range page.Posts {
		assert.Equal(t, "followed", p.Author.Username)
	}
}
