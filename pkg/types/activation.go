package types

import (
	"time"

	"github.com/google/uuid"
)

// Step outcome statuses for one unit of the activation workflow.
const (
	StepCompleted = "completed"
	StepSkipped   = "skipped"
	StepWarning   = "warning"
	StepError     = "error"
)

// Step names, in execution order.
const (
	StepLoadRecord     = "load_record"
	StepDNSZoneCheck   = "dns_zone_check"
	StepAttachRoot     = "attach_root_domain"
	StepAttachWWW      = "attach_www_domain"
	StepDNSRecords     = "dns_records"
	StepWWWRedirect    = "www_redirect"
	StepBillingOrder   = "billing_order"
	StepStoreBootstrap = "store_bootstrap"
)

type SetupStep struct {
	Step    string         `json:"step"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ZonePending reports whether this step failed because the provider has not
// taken over the DNS zone yet, the soft retry-later case.
func (s SetupStep) ZonePending() bool {
	if s.Status != StepError {
		return false
	}
	code, _ := s.Details["code"].(string)
	return code == "invalid_zone"
}

type ErrorEntry struct {
	Step       string    `json:"step"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ActivateRequest struct {
	DomainPurchaseID string `json:"domain_purchase_id" binding:"required"`
	ForceAll         bool   `json:"force_all"`
}

type ActivationSummary struct {
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Skipped     int    `json:"skipped"`
	Warnings    int    `json:"warnings"`
	Errors      int    `json:"errors"`
	FinalStatus string `json:"final_status"`
}

type ActivationResult struct {
	Success  bool              `json:"success"`
	Reason   string            `json:"reason,omitempty"`
	Domain   string            `json:"domain"`
	TenantID uuid.UUID         `json:"tenant_id"`
	Status   string            `json:"status"`
	Steps    []SetupStep       `json:"steps"`
	Summary  ActivationSummary `json:"summary"`
}

// Summarize folds a step list into the result summary.
func Summarize(steps []SetupStep, finalStatus string) ActivationSummary {
	s := ActivationSummary{Total: len(steps), FinalStatus: finalStatus}
	for _, step := range steps {
		switch step.Status {
		case StepCompleted:
			s.Completed++
		case StepSkipped:
			s.Skipped++
		case StepWarning:
			s.Warnings++
		case StepError:
			s.Errors++
		}
	}
	return s
}

// Domain lifecycle event types published to Kafka.
const (
	EventDomainActivated  = "domain.activated"
	EventDomainDNSPending = "domain.dns_pending"
	EventDomainFailed     = "domain.activation_failed"
)

type DomainEvent struct {
	EventType  string    `json:"event_type"`
	PurchaseID uuid.UUID `json:"purchase_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Domain     string    `json:"domain"`
	Status     string    `json:"status"`
	StoreName  string    `json:"store_name,omitempty"`
	OwnerEmail string    `json:"owner_email,omitempty"`
	OwnerPhone string    `json:"owner_phone,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
