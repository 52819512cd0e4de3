package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Subdomain   string    `gorm:"size:100;uniqueIndex" json:"subdomain"`
	OwnerUserID string    `gorm:"size:100;not null;index" json:"owner_user_id"`
	OwnerEmail  string    `gorm:"size:255" json:"owner_email"`
	OwnerPhone  string    `gorm:"size:30" json:"owner_phone"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	DomainPurchases []DomainPurchase `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type TenantSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	StoreName string    `gorm:"size:100;not null" json:"store_name"`
	Currency  string    `gorm:"size:10;default:'MXN'" json:"currency"`
	Language  string    `gorm:"size:10;default:'es'" json:"language"`
	WhatsApp  string    `gorm:"size:30" json:"whatsapp"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
}

type OnboardingProgress struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	CurrentStep    string    `gorm:"size:50;default:'store_ready'" json:"current_step"`
	CompletedSteps []string  `gorm:"serializer:json;type:jsonb" json:"completed_steps"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (OnboardingProgress) TableName() string {
	return "user_onboarding_progress"
}
