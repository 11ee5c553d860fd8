package models

import "time"

// Follow is a directed edge MyID -> FollowID. A follow-back is materialized as a
// second, independent record in the opposite direction.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"_id"`
	MyID       uint      `gorm:"not null;uniqueIndex:idx_follow_pair,priority:1" json:"my_id"`
	FollowID   uint      `gorm:"not null;uniqueIndex:idx_follow_pair,priority:2;index" json:"follow_id"`
	FollowBack bool      `gorm:"default:false" json:"follow_back"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
