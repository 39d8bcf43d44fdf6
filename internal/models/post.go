package models

import "time"

// MediaKind classifies an accepted attachment.
type MediaKind string

const (
	// MediaKindImage marks an attachment stored as an image.
	MediaKindImage MediaKind = "image"
	// MediaKindVideo marks an attachment stored as a video.
	MediaKindVideo MediaKind = "video"
)

// Post represents a post in the Chatter application. CommentCount and the
// per-type reaction counts are denormalized: they mirror the number of live
// children and are adjusted on every lifecycle transition rather than
// recomputed on read.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	MediaKind   MediaKind `gorm:"type:varchar(10)" json:"media_kind,omitempty"`

	CommentCount int `gorm:"not null;default:0" json:"comment_count"`
	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	LoveCount    int `gorm:"not null;default:0" json:"love_count"`
	SadCount     int `gorm:"not null;default:0" json:"sad_count"`
	AngryCount   int `gorm:"not null;default:0" json:"angry_count"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the post has not been soft-deleted.
func (p *Post) Live() bool {
	return !p.IsDeleted
}

// ReactionCounts returns the denormalized reaction counters keyed by type.
func (p *Post) ReactionCounts() map[ReactionType]int {
	return map[ReactionType]int{
		ReactionLike:  p.LikeCount,
		ReactionLove:  p.LoveCount,
		ReactionSad:   p.SadCount,
		ReactionAngry: p.AngryCount,
	}
}

// AddReactionDelta applies a signed delta to the counter for the given type.
func (p *Post) AddReactionDelta(t ReactionType, delta int) {
	switch t {
	case ReactionLike:
		p.LikeCount += delta
	case ReactionLove:
		p.LoveCount += delta
	case ReactionSad:
		p.SadCount += delta
	case ReactionAngry:
		p.AngryCount += delta
	}
}

// SetReactionCount overwrites the counter for the given type.
func (p *Post) SetReactionCount(t ReactionType, n int) {
	switch t {
	case ReactionLike:
		p.LikeCount = n
	case ReactionLove:
		p.LoveCount = n
	case ReactionSad:
		p.SadCount = n
	case ReactionAngry:
		p.AngryCount = n
	}
}
