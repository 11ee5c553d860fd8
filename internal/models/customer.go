// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultProfileImage is assigned to customers who register without a picture.
const DefaultProfileImage = "https://cdn-icons-png.flaticon.com/512/1160/1160865.png"

// Gender values accepted at registration.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Customer is a registered account. Social counters are derived from follows
// and never stored. Accounts are soft-disabled through IsDeleted.
type Customer struct {
	ID             uint      `gorm:"primaryKey" json:"_id"`
	Name           string    `gorm:"size:120;not null" json:"name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone          string    `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	Password       string    `gorm:"not null" json:"-"`
	Gender         string    `gorm:"size:16" json:"gender"`
	Age            int       `json:"age"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Website        string    `json:"website"`
	LockAccount    bool      `gorm:"default:false" json:"lockaccount"`
	Interests      []string  `gorm:"serializer:json;type:text" json:"interests"`
	ProfileImage   string    `json:"profileImage"`
	DeviceToken    string    `gorm:"column:token" json:"-"`
	Wallet         float64   `gorm:"default:0" json:"wallet"`
	Subscription   string    `gorm:"size:32;default:free" json:"subscription"`
	CustomerStatus string    `gorm:"size:32;default:active" json:"customer_status"`
	IsDeleted      bool      `gorm:"column:is_deleted;default:false;index" json:"customer_isDeleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayImage returns the profile image or the registration default.
func (c *Customer) DisplayImage() string {
	if c.ProfileImage == "" {
		return DefaultProfileImage
	}
	return c.ProfileImage
}
