package models

import "time"

// Movie is a catalog entry. MovieID is the public identifier used by episodes.
type Movie struct {
	ID               uint      `gorm:"primaryKey" json:"_id"`
	MovieID          string    `gorm:"size:64;uniqueIndex;not null" json:"movieID"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Category         string    `gorm:"size:64" json:"category"`
	Type             string    `gorm:"size:64" json:"type"`
	Duration         string    `gorm:"size:32" json:"duration"`
	Artists          string    `json:"artists"`
	Director         string    `json:"director"`
	Year             string    `gorm:"size:8" json:"year"`
	Location         string    `json:"location"`
	Detail           string    `gorm:"type:text" json:"detail"`
	HorizontalBanner string    `json:"horizontalBanner"`
	VerticalBanner   string    `json:"verticalBanner"`
	Trailer          string    `json:"trailer"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Episode belongs to a movie through MovieID.
type Episode struct {
	ID               uint      `gorm:"primaryKey" json:"_id"`
	MovieID          string    `gorm:"size:64;index;not null" json:"movieID"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Duration         string    `gorm:"size:32" json:"duration"`
	Detail           string    `gorm:"type:text" json:"detail"`
	HorizontalBanner string    `json:"horizontalBanner"`
	VerticalBanner   string    `json:"verticalBanner"`
	Trailer          string    `json:"trailer"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
