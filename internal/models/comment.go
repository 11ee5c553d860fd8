package models

import "time"

// Comment belongs to one post. A nil ParentCommentID marks a top-level comment.
// ReplyCount tracks live (non-deleted) direct replies.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"_id"`
	PostID          uint      `gorm:"not null;index:idx_comment_post_parent,priority:1" json:"post_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ParentCommentID *uint     `gorm:"index:idx_comment_post_parent,priority:2" json:"parent_comment_id"`
	CommentText     string    `gorm:"type:text;not null" json:"comment_text"`
	LikeCount       int       `gorm:"default:0" json:"like_count"`
	ReplyCount      int       `gorm:"default:0" json:"reply_count"`
	Status          string    `gorm:"size:16;default:active" json:"status"`
	IsDeleted       bool      `gorm:"column:is_deleted;default:false;index" json:"is_deleted"`
	CreatedAt       time.Time `gorm:"index" json:"comment_date"`
	UpdatedAt       time.Time `json:"updated_at"`
}
