package repositories

import (
	"couples-gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository struct {
	DB *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{DB: db}
}

func (r *FileRepository) Create(file *models.File) error {
	return r.DB.Create(file).Error
}

func (r *FileRepository) GetByID(id uuid.UUID) (*models.File, error) {
	var file models.File
	if err := r.DB.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByFolder(folderID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.DB.Where("folder_id = ?", folderID).Order("name asc").Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(id uuid.UUID) error {
	return r.DB.Delete(&models.File{}, "id = ?", id).Error
}

func (r *FileRepository) CountByFolder(folderID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.Model(&models.File{}).Where("folder_id = ?", folderID).Count(&n).Error
	return n, err
}

func (r *FileRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&models.File{}).Count(&n).Error
	return n, err
}

func (r *FileRepository) TotalSize() (int64, error) {
	var total int64
	err := r.DB.Model(&models.File{}).Select("COALESCE(SUM(size), 0)").Scan(&total).Error
	return total, err
}

// ExistsByNameInFolder is the favourites duplicate check: matching is by
// display name, deliberately not by content.
func (r *FileRepository) ExistsByNameInFolder(name string, folderID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.Model(&models.File{}).Where("name = ? AND folder_id = ?", name, folderID).Count(&n).Error
	return n > 0, err
}
