package repository

import (
	"context"
	"time"

	"chatter/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListLiveByComment(ctx context.Context, commentID uint) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error)
	MarkDeletedByComment(ctx context.Context, commentID uint, at time.Time) (int64, error)
	// MarkDeletedByPost transitions live replies under every comment of the
	// post, covering the widened post-delete cascade in one statement.
	MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error)
	CountLiveByComment(ctx context.Context, commentID uint) (int64, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).Preload("User").First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListLiveByComment(ctx context.Context, commentID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

func (r *replyRepository) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *replyRepository) MarkDeletedByComment(ctx context.Context, commentID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	return res.RowsAffected, res.Error
}

func (r *replyRepository) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("comment_id IN (?) AND is_deleted = ?",
			r.db.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID),
			false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_on": at})
	return res.RowsAffected, res.Error
}

func (r *replyRepository) CountLiveByComment(ctx context.Context, commentID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Count(&n).Error
	return n, err
}
