package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/authadmin"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/vercel"
)

type fakePurchaseStore struct {
	purchases map[uuid.UUID]*models.DomainPurchase
	updates   int
}

func (f *fakePurchaseStore) GetByID(id uuid.UUID) (*models.DomainPurchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, fmt.Errorf("purchase %s not found", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePurchaseStore) Update(purchase *models.DomainPurchase) error {
	copied := *purchase
	f.purchases[purchase.ID] = &copied
	f.updates++
	return nil
}

func (f *fakePurchaseStore) ListByStatus(status string) ([]models.DomainPurchase, error) {
	var out []models.DomainPurchase
	for _, p := range f.purchases {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeTenantStore struct {
	tenants map[uuid.UUID]*models.Tenant
}

func (f *fakeTenantStore) GetByID(id uuid.UUID) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %s not found", id)
	}
	return t, nil
}

type fakeOrderStore struct {
	orders []*models.Order
}

func (f *fakeOrderStore) Create(order *models.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderStore) ExistsByReference(reference string) (bool, error) {
	for _, o := range f.orders {
		if o.PaymentReference == reference {
			return true, nil
		}
	}
	return false, nil
}

type fakeBootstrapStore struct {
	settings   []*models.TenantSettings
	categories []*models.Category
	products   []*models.Product
	onboarding []*models.OnboardingProgress
}

func (f *fakeBootstrapStore) HasSettings(tenantID uuid.UUID) (bool, error) {
	return len(f.settings) > 0, nil
}
func (f *fakeBootstrapStore) CreateSettings(s *models.TenantSettings) error {
	f.settings = append(f.settings, s)
	return nil
}
func (f *fakeBootstrapStore) HasCategory(tenantID uuid.UUID) (bool, error) {
	return len(f.categories) > 0, nil
}
func (f *fakeBootstrapStore) CreateCategory(c *models.Category) error {
	c.ID = uuid.New()
	f.categories = append(f.categories, c)
	return nil
}
func (f *fakeBootstrapStore) HasProduct(tenantID uuid.UUID) (bool, error) {
	return len(f.products) > 0, nil
}
func (f *fakeBootstrapStore) CreateProduct(p *models.Product) error {
	f.products = append(f.products, p)
	return nil
}
func (f *fakeBootstrapStore) HasOnboarding(tenantID uuid.UUID) (bool, error) {
	return len(f.onboarding) > 0, nil
}
func (f *fakeBootstrapStore) CreateOnboarding(p *models.OnboardingProgress) error {
	f.onboarding = append(f.onboarding, p)
	return nil
}

type fakeHosting struct {
	info        *vercel.DomainInfo
	infoErr     error
	attached    map[string]bool
	attachErr   map[string]error
	records     map[string]bool
	recordErr   error
	redirectErr error

	attachCalls int
	recordCalls int
}

func newFakeHosting(zoneActive bool) *fakeHosting {
	info := &vercel.DomainInfo{
		ServiceType:         "external",
		IntendedNameservers: []string{"ns1.vercel-dns.com", "ns2.vercel-dns.com"},
		Nameservers:         []string{"ns1.registrar.example"},
	}
	if zoneActive {
		info.ServiceType = "zeit.world"
		info.Nameservers = info.IntendedNameservers
	}
	return &fakeHosting{
		info:      info,
		attached:  map[string]bool{},
		attachErr: map[string]error{},
		records:   map[string]bool{},
	}
}

func (f *fakeHosting) GetDomainInfo(ctx context.Context, domain string) (*vercel.DomainInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeHosting) AddProjectDomain(ctx context.Context, name string) (vercel.Outcome, error) {
	f.attachCalls++
	if err := f.attachErr[name]; err != nil {
		return 0, err
	}
	if f.attached[name] {
		return vercel.OutcomeAlreadyExists, nil
	}
	f.attached[name] = true
	return vercel.OutcomeCreated, nil
}

func (f *fakeHosting) CreateDNSRecord(ctx context.Context, domain string, record vercel.DNSRecord) (vercel.Outcome, error) {
	f.recordCalls++
	if f.recordErr != nil {
		return 0, f.recordErr
	}
	key := record.Type + "/" + record.Name + "/" + record.Value
	if f.records[key] {
		return vercel.OutcomeAlreadyExists, nil
	}
	f.records[key] = true
	return vercel.OutcomeCreated, nil
}

func (f *fakeHosting) SetRedirect(ctx context.Context, name, target string, statusCode int) error {
	return f.redirectErr
}

type fakeAuth struct {
	user *authadmin.User
	err  error
}

func (f *fakeAuth) GetUser(ctx context.Context, userID string) (*authadmin.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakePublisher struct {
	events []types.DomainEvent
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	var event types.DomainEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	service   *Service
	purchases *fakePurchaseStore
	orders    *fakeOrderStore
	bootstrap *fakeBootstrapStore
	hosting   *fakeHosting
	publisher *fakePublisher
	purchase  *models.DomainPurchase
	tenant    *models.Tenant
}

func newFixture(t *testing.T, zoneActive bool) *fixture {
	t.Helper()

	tenant := &models.Tenant{
		ID:          uuid.New(),
		Name:        "Tienda Luna",
		Subdomain:   "tienda-luna",
		OwnerUserID: "auth-user-1",
		OwnerEmail:  "fallback@example.com",
	}
	purchase := &models.DomainPurchase{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Domain:   "tiendaluna.mx",
		Status:   models.PurchasePending,
	}

	f := &fixture{
		purchases: &fakePurchaseStore{purchases: map[uuid.UUID]*models.DomainPurchase{purchase.ID: purchase}},
		orders:    &fakeOrderStore{},
		bootstrap: &fakeBootstrapStore{},
		hosting:   newFakeHosting(zoneActive),
		publisher: &fakePublisher{},
		purchase:  purchase,
		tenant:    tenant,
	}

	cfg := DefaultConfig()
	cfg.PropagationDelay = 0

	f.service = &Service{
		purchases: f.purchases,
		tenants:   &fakeTenantStore{tenants: map[uuid.UUID]*models.Tenant{tenant.ID: tenant}},
		orders:    f.orders,
		bootstrap: f.bootstrap,
		hosting:   f.hosting,
		auth:      &fakeAuth{user: &authadmin.User{ID: "auth-user-1", Email: "owner@example.com", Phone: "+525512345678"}},
		producer:  f.publisher,
		cfg:       cfg,
		log:       zap.NewNop(),
	}
	return f
}

func stepByName(t *testing.T, steps []types.SetupStep, name string) types.SetupStep {
	t.Helper()
	for _, s := range steps {
		if s.Step == name {
			return s
		}
	}
	t.Fatalf("step %s not found in %v", name, steps)
	return types.SetupStep{}
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture(t, true)

	result, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.PurchaseActive, result.Status)
	assert.Len(t, result.Steps, 8)
	for _, s := range result.Steps {
		assert.NotEqual(t, types.StepError, s.Status, "step %s should not error", s.Step)
	}

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, "owner@example.com", order.CustomerEmail, "email comes from the auth backend")
	assert.Equal(t, "domain-setup-"+f.purchase.ID.String(), order.PaymentReference)
	assert.Equal(t, models.OrderPaid, order.Status)

	require.Len(t, f.bootstrap.products, 1)
	require.NotNil(t, f.bootstrap.products[0].CategoryID)
	assert.Equal(t, f.bootstrap.categories[0].ID, *f.bootstrap.products[0].CategoryID)
	assert.Len(t, f.bootstrap.onboarding, 1)
	assert.Equal(t, []string{"domain_setup"}, f.bootstrap.onboarding[0].CompletedSteps)

	stored := f.purchases.purchases[f.purchase.ID]
	assert.Equal(t, models.PurchaseActive, stored.Status)
	meta, err := stored.DecodeMetadata()
	require.NoError(t, err)
	assert.Len(t, meta.SetupSteps, 8)
	assert.Equal(t, 0, meta.RetryCount)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, types.EventDomainActivated, event.EventType)
	assert.Equal(t, "owner@example.com", event.OwnerEmail)
	assert.Equal(t, "Tienda Luna", event.StoreName)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.Run(ctx, f.purchase.ID, false)
	require.NoError(t, err)
	result, err := f.service.Run(ctx, f.purchase.ID, false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.PurchaseActive, result.Status)
	assert.Equal(t, types.StepSkipped, stepByName(t, result.Steps, types.StepBillingOrder).Status)
	assert.Equal(t, types.StepSkipped, stepByName(t, result.Steps, types.StepStoreBootstrap).Status)

	assert.Len(t, f.orders.orders, 1, "setup fee is charged once")
	assert.Len(t, f.bootstrap.categories, 1)
	assert.Len(t, f.bootstrap.products, 1)
	assert.Len(t, f.bootstrap.settings, 1)
}

func TestRunForceAllReseeds(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.Run(ctx, f.purchase.ID, false)
	require.NoError(t, err)
	result, err := f.service.Run(ctx, f.purchase.ID, true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, types.StepCompleted, stepByName(t, result.Steps, types.StepBillingOrder).Status)
	assert.Len(t, f.orders.orders, 2)
	assert.Len(t, f.bootstrap.products, 2)
}

func TestRunDNSGateShortCircuits(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "dns_not_active_yet", result.Reason)
	assert.Equal(t, models.PurchaseDNSPending, result.Status)
	assert.Len(t, result.Steps, 2, "only load and zone check ran")

	assert.Zero(t, f.hosting.attachCalls, "no provider mutations before the zone is active")
	assert.Zero(t, f.hosting.recordCalls)
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.bootstrap.settings)

	stored := f.purchases.purchases[f.purchase.ID]
	assert.Equal(t, models.PurchaseDNSPending, stored.Status)
	meta, err := stored.DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, "pending", meta.DNSStatus)
	assert.Equal(t, []string{"ns1.registrar.example"}, meta.DetectedNameservers)
	assert.NotNil(t, meta.LastCheckedAt)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, types.EventDomainDNSPending, f.publisher.events[0].EventType)
}

func TestRunContainsStepFailures(t *testing.T) {
	f := newFixture(t, true)
	f.hosting.attachErr["tiendaluna.mx"] = &vercel.APIError{
		StatusCode: 403,
		Code:       "forbidden",
		Message:    "not allowed",
	}

	result, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, models.PurchaseFailed, result.Status)

	attachStep := stepByName(t, result.Steps, types.StepAttachRoot)
	assert.Equal(t, types.StepError, attachStep.Status)
	assert.Equal(t, "forbidden", attachStep.Details["code"])

	assert.Equal(t, types.StepCompleted, stepByName(t, result.Steps, types.StepBillingOrder).Status,
		"later steps still run after a failure")
	assert.Len(t, f.orders.orders, 1)
	assert.Len(t, f.bootstrap.settings, 1)

	meta, err := f.purchases.purchases[f.purchase.ID].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, 1, meta.RetryCount)
	require.NotEmpty(t, meta.ErrorHistory)
	assert.Equal(t, types.StepAttachRoot, meta.ErrorHistory[0].Step)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, types.EventDomainFailed, f.publisher.events[0].EventType)
}

func TestRunInvalidZoneDuringRecords(t *testing.T) {
	f := newFixture(t, true)
	f.hosting.recordErr = vercel.ErrInvalidZone

	result, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseDNSPending, result.Status)
	recordStep := stepByName(t, result.Steps, types.StepDNSRecords)
	assert.True(t, recordStep.ZonePending())

	meta, err := f.purchases.purchases[f.purchase.ID].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, 0, meta.RetryCount, "zone-pending runs are not counted as retries")
}

func TestRunAuthFallbackToTenantEmail(t *testing.T) {
	f := newFixture(t, true)
	f.service.auth = &fakeAuth{err: errors.New("auth backend unavailable")}

	result, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, "fallback@example.com", f.orders.orders[0].CustomerEmail)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "fallback@example.com", f.publisher.events[0].OwnerEmail)
}

func TestRunUnknownPurchase(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.service.Run(context.Background(), uuid.New(), false)
	require.Error(t, err)
}

func TestListPending(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.service.Run(context.Background(), f.purchase.ID, false)
	require.NoError(t, err)

	pending, err := f.service.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.purchase.ID, pending[0].ID)
}
