package database

import "nhatro/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Image{},
		&models.Amenity{},
		&models.Favourite{},
		&models.History{},
	}
}
