package server

import (
	"net/http"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowHandlers(t *testing.T) {
	s, app, db := newTestServer(t)
	author, _ := createTestUser(t, s, db, "author")
	reader, readerToken := createTestUser(t, s, db, "reader")

	t.Run("Follow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/author/follow", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", reader.ID, author.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("FollowAgain", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/author/follow", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", reader.ID, author.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("SelfFollow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/reader/follow", readerToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/ghost/follow", readerToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Unfollow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/author/unfollow", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", reader.ID, author.ID).
			Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Anonymous", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/profile/author/follow", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
