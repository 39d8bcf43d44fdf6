package repository

import (
	"context"
	"errors"
	"time"

	"chatter/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines interface for reaction operations
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	// GetLiveByPostAndUser returns the user's live reaction on the post, or
	// nil when none exists.
	GetLiveByPostAndUser(ctx context.Context, postID, userID uint) (*models.Reaction, error)
	ListLiveByPost(ctx context.Context, postID uint) ([]*models.Reaction, error)
	MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error)
	MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error)
	CountLiveByPostAndType(ctx context.Context, postID uint, t models.ReactionType) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) GetLiveByPostAndUser(ctx context.Context, postID, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND is_deleted = ?", postID, userID, false).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) ListLiveByPost(ctx context.Context, postID uint) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at DESC").
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reactionRepository) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	return res.RowsAffected, res.Error
}

func (r *reactionRepository) CountLiveByPostAndType(ctx context.Context, postID uint, t models.ReactionType) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("post_id = ? AND type = ? AND is_deleted = ?", postID, t, false).
		Count(&n).Error
	return n, err
}
