package repository

import (
	"context"
	"time"

	"chatter/internal/cache"
	"chatter/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDCached(ctx context.Context, id uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// MarkDeleted transitions the post to deleted only if it is still live
	// and reports whether this call performed the transition. The
	// conditional WHERE makes racing deletes observe exactly one winner.
	MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error)
	// AdjustCommentCount applies a signed delta to the denormalized comment
	// counter as a single UPDATE expression, safe under concurrent writers.
	AdjustCommentCount(ctx context.Context, id uint, delta int) error
	AdjustReactionCount(ctx context.Context, id uint, t models.ReactionType, delta int) error
	// SaveCounters persists only the counter columns, used by reconciliation.
	SaveCounters(ctx context.Context, post *models.Post) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDCached reads through the post cache. Mutation paths invalidate the
// key, so cached snapshots never outlive a counter or lifecycle change.
func (r *postRepository) GetByIDCached(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Preload("User").First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

// reactionColumn maps a reaction type to its counter column.
func reactionColumn(t models.ReactionType) string {
	switch t {
	case models.ReactionLove:
		return "love_count"
	case models.ReactionSad:
		return "sad_count"
	case models.ReactionAngry:
		return "angry_count"
	default:
		return "like_count"
	}
}

func (r *postRepository) AdjustCommentCount(ctx context.Context, id uint, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

func (r *postRepository) AdjustReactionCount(ctx context.Context, id uint, t models.ReactionType, delta int) error {
	col := reactionColumn(t)
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

func (r *postRepository) SaveCounters(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{
			"comment_count": post.CommentCount,
			"like_count":    post.LikeCount,
			"love_count":    post.LoveCount,
			"sad_count":     post.SadCount,
			"angry_count":   post.AngryCount,
		}).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

func (r *postRepository) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, id)
	}
	return res.RowsAffected > 0, nil
}
