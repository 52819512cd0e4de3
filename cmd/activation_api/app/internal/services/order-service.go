package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
)

type OrderService struct {
	repo *repositories.OrderRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{repo: repositories.NewOrderRepository(db)}
}

func (s *OrderService) ListOrders(tenantID uuid.UUID) ([]models.Order, error) {
	return s.repo.ListByTenant(tenantID)
}
