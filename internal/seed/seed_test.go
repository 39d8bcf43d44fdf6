package seed

import (
	"fmt"
	"testing"

	"chatter/internal/database"
	"chatter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestRun_CountersMatchLiveChildren(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{Users: 8, Posts: 12}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 8)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, users[0].HasRole(models.RoleOwner))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 12)

	for _, p := range posts {
		var comments int64
		require.NoError(t, db.Model(&models.Comment{}).
			Where("post_id = ? AND is_deleted = ?", p.ID, false).Count(&comments).Error)
		assert.Equal(t, int(comments), p.CommentCount, "post %d comment_count", p.ID)

		for _, rt := range models.ReactionTypes {
			var reactions int64
			require.NoError(t, db.Model(&models.Reaction{}).
				Where("post_id = ? AND type = ? AND is_deleted = ?", p.ID, rt, false).
				Count(&reactions).Error)
			assert.Equal(t, int(reactions), p.ReactionCounts()[rt],
				fmt.Sprintf("post %d %s_count", p.ID, rt))
		}
	}

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	for _, c := range comments {
		var replies int64
		require.NoError(t, db.Model(&models.Reply{}).
			Where("comment_id = ? AND is_deleted = ?", c.ID, false).Count(&replies).Error)
		assert.Equal(t, int(replies), c.ReplyCount, "comment %d reply_count", c.ID)
	}
}

func TestRun_OneLiveReactionPerUser(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{Users: 10, Posts: 6}))

	type pair struct {
		PostID uint
		UserID uint
		N      int64
	}
	var pairs []pair
	require.NoError(t, db.Model(&models.Reaction{}).
		Select("post_id, user_id, COUNT(*) AS n").
		Where("is_deleted = ?", false).
		Group("post_id, user_id").Scan(&pairs).Error)
	for _, p := range pairs {
		assert.LessOrEqual(t, p.N, int64(1))
	}
}

func TestRun_CleanReplacesPreviousRun(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{Users: 4, Posts: 3}))
	require.NoError(t, Run(db, Options{Users: 5, Posts: 7, Clean: true}))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(7), posts)
}

func TestRun_RejectsZeroUsers(t *testing.T) {
	db := setupSeedDB(t)
	assert.Error(t, Run(db, Options{Users: 0, Posts: 3}))
}
