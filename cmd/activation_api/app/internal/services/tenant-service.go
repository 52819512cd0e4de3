package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
)

type TenantService struct {
	repo *repositories.TenantRepository
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{repo: repositories.NewTenantRepository(db)}
}

func (s *TenantService) CreateTenant(name, subdomain, ownerUserID, ownerEmail, ownerPhone string) (*models.Tenant, error) {
	tenant := &models.Tenant{
		Name:        name,
		Subdomain:   subdomain,
		OwnerUserID: ownerUserID,
		OwnerEmail:  ownerEmail,
		OwnerPhone:  ownerPhone,
	}
	if err := s.repo.Create(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *TenantService) GetTenant(id uuid.UUID) (*models.Tenant, error) {
	return s.repo.GetByID(id)
}

func (s *TenantService) ListTenants() ([]models.Tenant, error) {
	return s.repo.List()
}

func (s *TenantService) DeleteTenant(id uuid.UUID) error {
	return s.repo.Delete(id)
}
