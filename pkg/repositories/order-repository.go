package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) ExistsByReference(reference string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("payment_reference = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderRepository) ListByTenant(tenantID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("tenant_id = ?", tenantID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
