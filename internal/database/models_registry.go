package database

import "darkbin/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Paste{},
		&models.Comment{},
		&models.Like{},
	}
}
