package models

import (
	"time"

	"github.com/google/uuid"
)

// Order payment statuses.
const (
	OrderPaid    = "paid"
	OrderPending = "pending"
)

type Order struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerEmail    string    `gorm:"size:255" json:"customer_email"`
	CustomerName     string    `gorm:"size:255" json:"customer_name"`
	Total            float64   `gorm:"not null" json:"total"`
	Currency         string    `gorm:"size:10;default:'MXN'" json:"currency"`
	PaymentMethod    string    `gorm:"size:50" json:"payment_method"`
	PaymentReference string    `gorm:"size:255;index" json:"payment_reference"`
	Status           string    `gorm:"size:50;not null;default:'pending';index" json:"status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
}
