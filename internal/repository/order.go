package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// OrderRepository loads and mutates orders. Orders are never deleted;
// the only mutation is the status column.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns orders with items, newest first, optionally restricted
// to one status.
func (r *OrderRepository) List(status string) ([]models.Order, error) {
	query := r.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	err := query.Preload("Items").Order("placed_at desc").Find(&orders).Error
	return orders, err
}

// Get loads one order with its items.
func (r *OrderRepository) Get(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus durably persists a status change for one order.
func (r *OrderRepository) UpdateStatus(id uuid.UUID, status string) error {
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Create stores a new order with its items. Exposed for seeding and
// for the customer-facing side of the platform.
func (r *OrderRepository) Create(order *models.Order) error {
	if order.PlacedAt.IsZero() {
		order.PlacedAt = time.Now()
	}
	if order.Status == "" {
		order.Status = "new"
	}
	return r.db.Create(order).Error
}

// CountSince returns the order count and revenue total for orders
// placed in [from, to).
func (r *OrderRepository) CountSince(from, to time.Time) (int64, float64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("placed_at >= ? AND placed_at < ?", from, to).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var revenue float64
	if err := r.db.Model(&models.Order{}).
		Where("placed_at >= ? AND placed_at < ? AND status != ?", from, to, "cancelled").
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}
