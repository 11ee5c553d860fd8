package database

import "vzsocial/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.Post{},
		&models.Follow{},
		&models.Comment{},
		&models.Like{},
		&models.Song{},
		&models.Movie{},
		&models.Episode{},
		&models.AdminUser{},
	}
}
