package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
)

var validPurchaseStatuses = map[string]bool{
	models.PurchasePending:    true,
	models.PurchaseDNSPending: true,
	models.PurchaseActive:     true,
	models.PurchaseFailed:     true,
	models.PurchaseCancelled:  true,
}

var ErrInvalidStatus = errors.New("unknown purchase status")

type DomainService struct {
	purchases *repositories.DomainPurchaseRepository
	tenants   *repositories.TenantRepository
}

func NewDomainService(db *gorm.DB) *DomainService {
	return &DomainService{
		purchases: repositories.NewDomainPurchaseRepository(db),
		tenants:   repositories.NewTenantRepository(db),
	}
}

// PurchaseView is the API representation of a purchase with its activation
// metadata decoded.
type PurchaseView struct {
	models.DomainPurchase
	Activation models.PurchaseMetadata `json:"activation"`
}

func (s *DomainService) CreatePurchase(tenantID uuid.UUID, domain string) (*models.DomainPurchase, error) {
	if _, err := s.tenants.GetByID(tenantID); err != nil {
		return nil, err
	}
	purchase := &models.DomainPurchase{
		TenantID: tenantID,
		Domain:   domain,
		Status:   models.PurchasePending,
	}
	if err := s.purchases.Create(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *DomainService) GetPurchase(id uuid.UUID) (*PurchaseView, error) {
	purchase, err := s.purchases.GetByID(id)
	if err != nil {
		return nil, err
	}
	meta, err := purchase.DecodeMetadata()
	if err != nil {
		meta = models.PurchaseMetadata{}
	}
	return &PurchaseView{DomainPurchase: *purchase, Activation: meta}, nil
}

func (s *DomainService) ListPurchases(status string) ([]models.DomainPurchase, error) {
	if status == "" {
		return s.purchases.List()
	}
	if !validPurchaseStatuses[status] {
		return nil, ErrInvalidStatus
	}
	return s.purchases.ListByStatus(status)
}
