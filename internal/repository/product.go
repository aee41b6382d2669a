package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
)

// ProductRepository is the catalog store.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns products, newest first, with optional category and
// free-text filters.
func (r *ProductRepository) List(category, search string) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search = strings.TrimSpace(search); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", q, q)
	}

	var products []models.Product
	err := query.Order("created_at desc").Find(&products).Error
	return products, err
}

// Get loads one product.
func (r *ProductRepository) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Create stores a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update applies the supplied column values to one product. Callers
// pass only the fields they intend to change, so unspecified fields
// (image_url in particular) survive partial updates.
func (r *ProductRepository) Update(id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(id)
}

// ToggleActive flips a product's availability flag.
func (r *ProductRepository) ToggleActive(id uuid.UUID) (*models.Product, error) {
	product, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return r.Update(id, map[string]interface{}{"is_active": !product.IsActive})
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
