package models

import "time"

// Reply represents a reply to a comment. Replies are the leaf of the content
// hierarchy and carry no denormalized child counters.
type Reply struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CommentID uint   `gorm:"not null;index" json:"comment_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	Text      string `gorm:"type:text;not null" json:"text"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the reply has not been soft-deleted.
func (r *Reply) Live() bool {
	return !r.IsDeleted
}
