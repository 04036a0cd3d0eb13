package repositories

import (
	"couples-gallery/internal/models"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Folder{},
		&models.File{},
		&models.Share{},
		&models.ActivityLog{},
		&models.PrintProduct{},
		&models.PrintOrder{},
	)
}
