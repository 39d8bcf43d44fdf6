package models

import "time"

// ReactionType enumerates the reaction kinds a user can leave on a post.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every valid reaction type.
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionSad, ReactionAngry}

// ParseReactionType validates a wire value against the known reaction types.
func ParseReactionType(s string) (ReactionType, bool) {
	for _, t := range ReactionTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Reaction represents a user's reaction on a post. At most one live reaction
// may exist per (post_id, user_id) pair; the reaction service serializes
// writes per pair inside a transaction to uphold that.
type Reaction struct {
	ID     uint         `gorm:"primaryKey" json:"id"`
	PostID uint         `gorm:"not null;index:idx_reaction_post_user" json:"post_id"`
	UserID uint         `gorm:"not null;index:idx_reaction_post_user" json:"user_id"`
	User   User         `gorm:"foreignKey:UserID" json:"user"`
	Type   ReactionType `gorm:"type:varchar(10);not null" json:"type"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the reaction has not been soft-deleted.
func (r *Reaction) Live() bool {
	return !r.IsDeleted
}
