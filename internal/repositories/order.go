package repositories

import (
	"couples-gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(p *models.PrintProduct) error {
	return r.DB.Create(p).Error
}

func (r *ProductRepository) GetByID(id uuid.UUID) (*models.PrintProduct, error) {
	var p models.PrintProduct
	if err := r.DB.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(activeOnly bool) ([]models.PrintProduct, error) {
	var products []models.PrintProduct
	q := r.DB.Order("name asc")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(p *models.PrintProduct) error {
	return r.DB.Save(p).Error
}

func (r *ProductRepository) Delete(id uuid.UUID) (int64, error) {
	res := r.DB.Delete(&models.PrintProduct{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(o *models.PrintOrder) error {
	return r.DB.Create(o).Error
}

func (r *OrderRepository) GetByID(id uuid.UUID) (*models.PrintOrder, error) {
	var o models.PrintOrder
	if err := r.DB.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(limit, offset int) ([]models.PrintOrder, error) {
	var orders []models.PrintOrder
	err := r.DB.Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) UpdateStatus(id uuid.UUID, status string) (int64, error) {
	res := r.DB.Model(&models.PrintOrder{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}
