package repositories

import (
	"couples-gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FolderRepository struct {
	DB *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{DB: db}
}

func (r *FolderRepository) Create(folder *models.Folder) error {
	return r.DB.Create(folder).Error
}

func (r *FolderRepository) GetByID(id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := r.DB.First(&folder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByParent lists direct children. A nil parent selects root folders.
func (r *FolderRepository) ListByParent(parentID *uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	q := r.DB.Order("name asc")
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Find(&folders).Error
	return folders, err
}

func (r *FolderRepository) ListAll() ([]models.Folder, error) {
	var folders []models.Folder
	err := r.DB.Order("name asc").Find(&folders).Error
	return folders, err
}

func (r *FolderRepository) Rename(id uuid.UUID, name string) (int64, error) {
	res := r.DB.Model(&models.Folder{}).Where("id = ?", id).Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *FolderRepository) Delete(id uuid.UUID) error {
	return r.DB.Delete(&models.Folder{}, "id = ?", id).Error
}

func (r *FolderRepository) CountChildren(id uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Folder{}).Where("parent_id = ?", id).Count(&n).Error
	return n, err
}

func (r *FolderRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&models.Folder{}).Count(&n).Error
	return n, err
}

// FindByNameAndParent backs idempotent lookups like the favourites folder.
func (r *FolderRepository) FindByNameAndParent(name string, parentID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := r.DB.Where("name = ? AND parent_id = ?", name, parentID).First(&folder).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
