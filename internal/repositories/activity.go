package repositories

import (
	"encoding/json"
	"time"

	"couples-gallery/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RetentionHorizon is how long activity entries are kept. Older rows are
// purged lazily on the next listing, not by a background sweep.
const RetentionHorizon = 400 * 24 * time.Hour

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Log(action, shareToken, folderName, fileName, ip string, details map[string]any) error {
	var detailBytes []byte
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailBytes = b
	}
	entry := models.ActivityLog{
		Action:     action,
		ShareToken: shareToken,
		FolderName: folderName,
		FileName:   fileName,
		Details:    datatypes.JSON(detailBytes),
		IPAddress:  ip,
	}
	return r.DB.Create(&entry).Error
}

// List purges entries past the retention horizon, then returns the newest
// entries first.
func (r *ActivityRepository) List(limit, offset int) ([]models.ActivityLog, error) {
	cutoff := time.Now().Add(-RetentionHorizon)
	if err := r.DB.Delete(&models.ActivityLog{}, "created_at < ?", cutoff).Error; err != nil {
		return nil, err
	}

	var entries []models.ActivityLog
	err := r.DB.Order("created_at desc").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, err
}

func (r *ActivityRepository) Clear() error {
	return r.DB.Where("1 = 1").Delete(&models.ActivityLog{}).Error
}
