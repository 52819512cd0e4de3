package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
)

type TemplateService struct {
	repo *repositories.TemplateRepository
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{repo: repositories.NewTemplateRepository(db)}
}

func (s *TemplateService) CreateTemplate(template *models.Template) error {
	return s.repo.Create(template)
}

func (s *TemplateService) GetTemplate(id uuid.UUID) (*models.Template, error) {
	return s.repo.GetByID(id)
}

func (s *TemplateService) ListTemplates(tenantID uuid.UUID) ([]models.Template, error) {
	return s.repo.List(tenantID)
}

func (s *TemplateService) UpdateTemplate(template *models.Template) error {
	return s.repo.Update(template)
}

func (s *TemplateService) DeleteTemplate(id uuid.UUID) error {
	return s.repo.Delete(id)
}
