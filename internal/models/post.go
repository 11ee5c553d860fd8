package models

import "time"

// Post types. Stories and reels share the table with regular posts.
const (
	PostTypePost  = "post"
	PostTypeReel  = "reel"
	PostTypeStory = "story"
)

// Media types.
const (
	MediaTypeImage = "Image"
	MediaTypeVideo = "Video"
)

// Post is a unit of shared media owned by one customer. Media is an ordered
// list of object URLs serialized as "image" to match client expectations.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"_id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Type       string    `gorm:"size:16;not null;index:idx_post_kind,priority:2" json:"type"`
	PostType   string    `gorm:"size:16;not null;index:idx_post_kind,priority:1" json:"post_type"`
	Media      []string  `gorm:"serializer:json;type:text" json:"image"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	Song       string    `json:"song,omitempty"`
	Location   string    `json:"location,omitempty"`
	Detail     string    `gorm:"type:text" json:"detail,omitempty"`
	IsDeleted  bool      `gorm:"column:is_deleted;default:false;index" json:"is_deleted"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FirstMedia returns the first media URL or nil when the post has none.
func (p *Post) FirstMedia() *string {
	if len(p.Media) == 0 {
		return nil
	}
	first := p.Media[0]
	return &first
}
