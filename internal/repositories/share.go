package repositories

import (
	"couples-gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareRepository struct {
	DB *gorm.DB
}

func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{DB: db}
}

func (r *ShareRepository) Create(share *models.Share) error {
	return r.DB.Create(share).Error
}

func (r *ShareRepository) GetByID(id uuid.UUID) (*models.Share, error) {
	var share models.Share
	if err := r.DB.First(&share, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *ShareRepository) GetByToken(token string) (*models.Share, error) {
	var share models.Share
	if err := r.DB.Where("token = ?", token).First(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *ShareRepository) TokenExists(token string) (bool, error) {
	var n int64
	err := r.DB.Model(&models.Share{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

func (r *ShareRepository) List() ([]models.Share, error) {
	var shares []models.Share
	err := r.DB.Order("created_at desc").Find(&shares).Error
	return shares, err
}

func (r *ShareRepository) UpdatePermission(id uuid.UUID, permission string) (int64, error) {
	res := r.DB.Model(&models.Share{}).Where("id = ?", id).Update("permission", permission)
	return res.RowsAffected, res.Error
}

func (r *ShareRepository) Delete(id uuid.UUID) (int64, error) {
	res := r.DB.Delete(&models.Share{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// DeleteByFolder removes every share rooted at the folder; used by the
// folder cascade delete.
func (r *ShareRepository) DeleteByFolder(folderID uuid.UUID) error {
	return r.DB.Delete(&models.Share{}, "folder_id = ?", folderID).Error
}

func (r *ShareRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&models.Share{}).Count(&n).Error
	return n, err
}
