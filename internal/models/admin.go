package models

import "time"

// Admin user roles.
const (
	AdminRoleAdmin     = "admin"
	AdminRoleUser      = "user"
	AdminRoleModerator = "moderator"
)

// AdminUser is a back-office operator, separate from customers.
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	UserType  string    `gorm:"size:16;default:user" json:"userType"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidAdminRole reports whether role is one of the known admin roles.
func ValidAdminRole(role string) bool {
	switch role {
	case AdminRoleAdmin, AdminRoleUser, AdminRoleModerator:
		return true
	}
	return false
}
