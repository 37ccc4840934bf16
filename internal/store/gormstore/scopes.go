package gormstore

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedBy filters documents by owner.
func ownedBy(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func inCategory(category models.Category) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	}
}
