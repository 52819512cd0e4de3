package activation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/authadmin"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/vercel"
)

// PurchaseStore is the slice of the purchase repository the workflow needs.
type PurchaseStore interface {
	GetByID(id uuid.UUID) (*models.DomainPurchase, error)
	Update(purchase *models.DomainPurchase) error
	ListByStatus(status string) ([]models.DomainPurchase, error)
}

type TenantStore interface {
	GetByID(id uuid.UUID) (*models.Tenant, error)
}

type OrderStore interface {
	Create(order *models.Order) error
	ExistsByReference(reference string) (bool, error)
}

// BootstrapStore covers the four independently idempotent seed artifacts.
type BootstrapStore interface {
	HasSettings(tenantID uuid.UUID) (bool, error)
	CreateSettings(settings *models.TenantSettings) error
	HasCategory(tenantID uuid.UUID) (bool, error)
	CreateCategory(category *models.Category) error
	HasProduct(tenantID uuid.UUID) (bool, error)
	CreateProduct(product *models.Product) error
	HasOnboarding(tenantID uuid.UUID) (bool, error)
	CreateOnboarding(progress *models.OnboardingProgress) error
}

// HostingClient is the semantic surface of the hosting provider's domain
// and DNS management API.
type HostingClient interface {
	GetDomainInfo(ctx context.Context, domain string) (*vercel.DomainInfo, error)
	AddProjectDomain(ctx context.Context, name string) (vercel.Outcome, error)
	CreateDNSRecord(ctx context.Context, domain string, record vercel.DNSRecord) (vercel.Outcome, error)
	SetRedirect(ctx context.Context, name, target string, statusCode int) error
}

type AuthAdmin interface {
	GetUser(ctx context.Context, userID string) (*authadmin.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Config carries everything the workflow needs from the environment; the
// service itself never reads ambient process state.
type Config struct {
	ARecordIPs       []string
	CNAMETarget      string
	PropagationDelay time.Duration
	DomainFeeMXN     float64
	DomainFeeUSD     float64
	EventsTopic      string
}

func DefaultConfig() Config {
	return Config{
		ARecordIPs:       []string{"76.76.21.21", "76.76.21.98"},
		CNAMETarget:      "cname.vercel-dns.com",
		PropagationDelay: 2 * time.Second,
		DomainFeeMXN:     95.95,
		DomainFeeUSD:     4.80,
		EventsTopic:      "domain.lifecycle",
	}
}

// Service drives a purchased domain from "nameservers delegated" to
// "serving traffic". Every step is idempotent by existence check or by the
// provider treating re-creation as success, so the workflow can be invoked
// repeatedly for the same purchase.
type Service struct {
	purchases PurchaseStore
	tenants   TenantStore
	orders    OrderStore
	bootstrap BootstrapStore
	hosting   HostingClient
	auth      AuthAdmin
	producer  EventPublisher
	cfg       Config
	log       *zap.Logger
}

func NewService(db *gorm.DB, hosting HostingClient, auth AuthAdmin, producer EventPublisher, cfg Config, log *zap.Logger) *Service {
	return &Service{
		purchases: repositories.NewDomainPurchaseRepository(db),
		tenants:   repositories.NewTenantRepository(db),
		orders:    repositories.NewOrderRepository(db),
		bootstrap: repositories.NewCatalogRepository(db),
		hosting:   hosting,
		auth:      auth,
		producer:  producer,
		cfg:       cfg,
		log:       log,
	}
}

// Run executes the activation workflow for one domain purchase. The only
// error it returns is the fatal record-load failure; every other problem is
// folded into the step list and the purchase's final status.
func (s *Service) Run(ctx context.Context, purchaseID uuid.UUID, forceAll bool) (*types.ActivationResult, error) {
	timer := prometheus.NewTimer(metrics.ActivationRunDuration)
	defer timer.ObserveDuration()

	purchase, err := s.purchases.GetByID(purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load domain purchase %s: %w", purchaseID, err)
	}
	tenant, err := s.tenants.GetByID(purchase.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant %s: %w", purchase.TenantID, err)
	}

	s.log.Info("starting domain activation",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("domain", purchase.Domain),
		zap.Bool("force_all", forceAll),
	)

	steps := []types.SetupStep{{
		Step:    types.StepLoadRecord,
		Status:  types.StepCompleted,
		Message: fmt.Sprintf("loaded purchase for %s (tenant %s)", purchase.Domain, tenant.Name),
	}}

	info, zoneActive, zoneStep := s.checkDNSZone(ctx, purchase.Domain)
	steps = append(steps, zoneStep)
	if !zoneActive {
		s.persistZonePending(purchase, steps, info)
		s.publishEvent(ctx, types.EventDomainDNSPending, purchase, tenant, "", "")
		s.recordStepMetrics(steps, models.PurchaseDNSPending)
		return &types.ActivationResult{
			Success:  false,
			Reason:   "dns_not_active_yet",
			Domain:   purchase.Domain,
			TenantID: tenant.ID,
			Status:   models.PurchaseDNSPending,
			Steps:    steps,
			Summary:  types.Summarize(steps, models.PurchaseDNSPending),
		}, nil
	}

	steps = append(steps, s.attachDomain(ctx, types.StepAttachRoot, purchase.Domain))
	steps = append(steps, s.attachDomain(ctx, types.StepAttachWWW, "www."+purchase.Domain))
	steps = append(steps, s.writeDNSRecords(ctx, purchase.Domain))
	steps = append(steps, s.configureRedirect(ctx, purchase.Domain))

	billingStep, ownerEmail, ownerPhone := s.recordBillingOrder(ctx, purchase, tenant, forceAll)
	steps = append(steps, billingStep)
	steps = append(steps, s.bootstrapStore(tenant, forceAll))

	finalStatus := DeriveStatus(steps)
	if err := s.persistRun(purchase, steps, finalStatus, info); err != nil {
		s.log.Error("failed to persist activation run",
			zap.String("purchase_id", purchase.ID.String()),
			zap.Error(err),
		)
	}

	s.recordStepMetrics(steps, finalStatus)
	s.publishEvent(ctx, eventTypeFor(finalStatus), purchase, tenant, ownerEmail, ownerPhone)

	s.log.Info("domain activation finished",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("domain", purchase.Domain),
		zap.String("status", finalStatus),
	)

	return &types.ActivationResult{
		Success:  finalStatus == models.PurchaseActive,
		Domain:   purchase.Domain,
		TenantID: tenant.ID,
		Status:   finalStatus,
		Steps:    steps,
		Summary:  types.Summarize(steps, finalStatus),
	}, nil
}

// ListPending returns the purchases an external scheduler should re-drive.
func (s *Service) ListPending() ([]models.DomainPurchase, error) {
	return s.purchases.ListByStatus(models.PurchaseDNSPending)
}

func (s *Service) persistZonePending(purchase *models.DomainPurchase, steps []types.SetupStep, info *vercel.DomainInfo) {
	meta, err := purchase.DecodeMetadata()
	if err != nil {
		s.log.Warn("resetting unreadable purchase metadata",
			zap.String("purchase_id", purchase.ID.String()),
			zap.Error(err),
		)
		meta = models.PurchaseMetadata{}
	}
	now := time.Now().UTC()
	meta.SetupSteps = steps
	meta.DNSStatus = "pending"
	meta.LastCheckedAt = &now
	if info != nil {
		meta.DetectedNameservers = info.Nameservers
	}
	purchase.Status = models.PurchaseDNSPending
	if err := purchase.EncodeMetadata(meta); err == nil {
		if err := s.purchases.Update(purchase); err != nil {
			s.log.Error("failed to persist dns_pending state", zap.Error(err))
		}
	}
}

func (s *Service) persistRun(purchase *models.DomainPurchase, steps []types.SetupStep, finalStatus string, info *vercel.DomainInfo) error {
	meta, err := purchase.DecodeMetadata()
	if err != nil {
		s.log.Warn("resetting unreadable purchase metadata",
			zap.String("purchase_id", purchase.ID.String()),
			zap.Error(err),
		)
		meta = models.PurchaseMetadata{}
	}
	meta = FoldMetadata(meta, steps, finalStatus, time.Now().UTC())
	if info != nil {
		meta.DetectedNameservers = info.Nameservers
	}
	purchase.Status = finalStatus
	if err := purchase.EncodeMetadata(meta); err != nil {
		return err
	}
	return s.purchases.Update(purchase)
}

func (s *Service) recordStepMetrics(steps []types.SetupStep, finalStatus string) {
	metrics.ActivationRunsTotal.WithLabelValues(finalStatus).Inc()
	for _, step := range steps {
		metrics.ActivationStepsTotal.WithLabelValues(step.Step, step.Status).Inc()
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType string, purchase *models.DomainPurchase, tenant *models.Tenant, ownerEmail, ownerPhone string) {
	if s.producer == nil {
		return
	}
	if ownerEmail == "" {
		ownerEmail = tenant.OwnerEmail
	}
	if ownerPhone == "" {
		ownerPhone = tenant.OwnerPhone
	}
	event := types.DomainEvent{
		EventType:  eventType,
		PurchaseID: purchase.ID,
		TenantID:   tenant.ID,
		Domain:     purchase.Domain,
		Status:     purchase.Status,
		StoreName:  tenant.Name,
		OwnerEmail: ownerEmail,
		OwnerPhone: ownerPhone,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("failed to marshal domain event", zap.Error(err))
		return
	}
	if err := s.producer.Publish(ctx, s.cfg.EventsTopic, []byte(purchase.ID.String()), payload); err != nil {
		s.log.Error("failed to publish domain event",
			zap.String("event_type", eventType),
			zap.String("domain", purchase.Domain),
			zap.Error(err),
		)
	}
}

func eventTypeFor(status string) string {
	switch status {
	case models.PurchaseActive:
		return types.EventDomainActivated
	case models.PurchaseDNSPending:
		return types.EventDomainDNSPending
	default:
		return types.EventDomainFailed
	}
}
