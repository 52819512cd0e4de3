package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
)

// Domain purchase lifecycle statuses.
const (
	PurchasePending    = "pending"
	PurchaseDNSPending = "dns_pending"
	PurchaseActive     = "active"
	PurchaseFailed     = "failed"
	PurchaseCancelled  = "cancelled"
)

// MaxErrorHistory bounds the error log carried in purchase metadata.
const MaxErrorHistory = 50

type DomainPurchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Domain    string         `gorm:"size:255;not null;uniqueIndex" json:"domain"`
	Status    string         `gorm:"size:50;not null;default:'pending';index" json:"status"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DomainPurchase) TableName() string {
	return "domain_purchases"
}

// PurchaseMetadata is the JSON bag mutated on every activation run:
// setup_steps is overwritten with the latest run, error_history is
// most-recent-first and bounded.
type PurchaseMetadata struct {
	SetupSteps          []types.SetupStep  `json:"setup_steps,omitempty"`
	ErrorHistory        []types.ErrorEntry `json:"error_history,omitempty"`
	RetryCount          int                `json:"retry_count,omitempty"`
	LastError           string             `json:"last_error,omitempty"`
	DNSStatus           string             `json:"dns_status,omitempty"`
	DetectedNameservers []string           `json:"detected_nameservers,omitempty"`
	LastCheckedAt       *time.Time         `json:"last_checked_at,omitempty"`
}

func (p *DomainPurchase) DecodeMetadata() (PurchaseMetadata, error) {
	var meta PurchaseMetadata
	if len(p.Metadata) == 0 {
		return meta, nil
	}
	if err := json.Unmarshal(p.Metadata, &meta); err != nil {
		return PurchaseMetadata{}, err
	}
	return meta, nil
}

func (p *DomainPurchase) EncodeMetadata(meta PurchaseMetadata) error {
	if len(meta.ErrorHistory) > MaxErrorHistory {
		meta.ErrorHistory = meta.ErrorHistory[:MaxErrorHistory]
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	p.Metadata = datatypes.JSON(raw)
	return nil
}
