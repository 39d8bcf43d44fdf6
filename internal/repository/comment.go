package repository

import (
	"context"
	"time"

	"chatter/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListLiveByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	// MarkDeleted is the compare-and-set lifecycle transition; it reports
	// whether this call moved the comment out of the live set.
	MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error)
	// MarkDeletedByPost transitions every live comment under the post and
	// returns how many rows changed. Already-deleted comments are left
	// untouched, keeping the cascade idempotent.
	MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error)
	CountLiveByPost(ctx context.Context, postID uint) (int64, error)
	// AdjustReplyCount applies a signed delta to the denormalized reply
	// counter as a single UPDATE expression.
	AdjustReplyCount(ctx context.Context, id uint, delta int) error
	SaveReplyCount(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListLiveByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *commentRepository) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) AdjustReplyCount(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).Error
}

func (r *commentRepository) SaveReplyCount(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		UpdateColumn("reply_count", comment.ReplyCount).Error
}

func (r *commentRepository) CountLiveByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&n).Error
	return n, err
}
