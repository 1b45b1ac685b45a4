package seed

import (
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"
	"yatube/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := testutil.OpenTestDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 5, NumPosts: 25}))

	var userCount, groupCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)

	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(len(defaultGroups)), groupCount)
	assert.Equal(t, int64(25), postCount)

	// No follow edge may point a user at themselves.
	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

func TestRunIsRepeatable(t *testing.T) {
	db := testutil.OpenTestDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 5}))
	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 5, ShouldClean: true}))

	var groupCount int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.Equal(t, int64(len(defaultGroups)), groupCount)
}

func TestDefaultGroupSlugsAreValid(t *testing.T) {
	for _, g := range defaultGroups {
		assert.NoError(t, validation.ValidateGroupSlug(g.Slug), g.Slug)
	}
}
