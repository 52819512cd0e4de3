package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
)

// CatalogRepository covers the bootstrap artifacts seeded for a freshly
// activated store: settings, categories, products, onboarding progress.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) HasSettings(tenantID uuid.UUID) (bool, error) {
	return r.exists(&models.TenantSettings{}, tenantID)
}

func (r *CatalogRepository) CreateSettings(settings *models.TenantSettings) error {
	return r.db.Create(settings).Error
}

func (r *CatalogRepository) HasCategory(tenantID uuid.UUID) (bool, error) {
	return r.exists(&models.Category{}, tenantID)
}

func (r *CatalogRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *CatalogRepository) HasProduct(tenantID uuid.UUID) (bool, error) {
	return r.exists(&models.Product{}, tenantID)
}

func (r *CatalogRepository) CreateProduct(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *CatalogRepository) HasOnboarding(tenantID uuid.UUID) (bool, error) {
	return r.exists(&models.OnboardingProgress{}, tenantID)
}

func (r *CatalogRepository) CreateOnboarding(progress *models.OnboardingProgress) error {
	return r.db.Create(progress).Error
}

func (r *CatalogRepository) exists(model interface{}, tenantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(model).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
