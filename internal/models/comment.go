package models

import "time"

// Comment represents a comment on a post. ReplyCount mirrors the number of
// live replies under the comment; it stops being maintained once the comment
// itself is deleted, because a full-comment cascade supersedes individual
// reply counters.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Text      string    `gorm:"type:text" json:"text,omitempty"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaKind MediaKind `gorm:"type:varchar(10)" json:"media_kind,omitempty"`

	ReplyCount int `gorm:"not null;default:0" json:"reply_count"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the comment has not been soft-deleted.
func (c *Comment) Live() bool {
	return !c.IsDeleted
}
