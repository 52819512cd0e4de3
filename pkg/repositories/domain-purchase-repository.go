package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
)

type DomainPurchaseRepository struct {
	db *gorm.DB
}

func NewDomainPurchaseRepository(db *gorm.DB) *DomainPurchaseRepository {
	return &DomainPurchaseRepository{db: db}
}

func (r *DomainPurchaseRepository) Create(purchase *models.DomainPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *DomainPurchaseRepository) GetByID(id uuid.UUID) (*models.DomainPurchase, error) {
	var purchase models.DomainPurchase
	if err := r.db.First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *DomainPurchaseRepository) ListByStatus(status string) ([]models.DomainPurchase, error) {
	var purchases []models.DomainPurchase
	if err := r.db.Where("status = ?", status).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *DomainPurchaseRepository) List() ([]models.DomainPurchase, error) {
	var purchases []models.DomainPurchase
	if err := r.db.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Update persists status and metadata mutations from an activation run.
func (r *DomainPurchaseRepository) Update(purchase *models.DomainPurchase) error {
	return r.db.Model(&models.DomainPurchase{}).
		Where("id = ?", purchase.ID).
		Updates(map[string]interface{}{
			"status":   purchase.Status,
			"metadata": purchase.Metadata,
		}).Error
}
