package models

import "time"

// Like marks that a customer liked a post. At most one row exists per
// (UserID, PostID), enforced by idx_like_user_post.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post,priority:1" json:"my_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post,priority:2;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
