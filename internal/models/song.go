package models

import "time"

// Song is an uploaded track customers can attach to posts.
type Song struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Artist    string    `gorm:"size:255" json:"artist"`
	Detail    string    `gorm:"type:text" json:"detail"`
	Location  string    `json:"location"`
	Image     string    `json:"image"`
	SongURL   string    `json:"song"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
