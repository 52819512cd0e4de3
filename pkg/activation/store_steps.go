package activation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
)

// recordBillingOrder books the one-time domain setup fee. It also resolves
// the owner's contact details from the auth backend so downstream
// notifications have somewhere to go, falling back to what the tenant row
// carries when the lookup fails.
func (s *Service) recordBillingOrder(ctx context.Context, purchase *models.DomainPurchase, tenant *models.Tenant, forceAll bool) (types.SetupStep, string, string) {
	ownerEmail := tenant.OwnerEmail
	ownerPhone := tenant.OwnerPhone
	ownerName := tenant.Name
	if user, err := s.auth.GetUser(ctx, tenant.OwnerUserID); err != nil {
		s.log.Warn("could not resolve owner from auth backend",
			zap.String("owner_user_id", tenant.OwnerUserID),
			zap.Error(err),
		)
	} else {
		if user.Email != "" {
			ownerEmail = user.Email
		}
		if user.Phone != "" {
			ownerPhone = user.Phone
		}
		if user.Meta.FullName != "" {
			ownerName = user.Meta.FullName
		}
	}

	reference := "domain-setup-" + purchase.ID.String()
	if !forceAll {
		exists, err := s.orders.ExistsByReference(reference)
		if err != nil {
			return types.SetupStep{
				Step:    types.StepBillingOrder,
				Status:  types.StepError,
				Message: fmt.Sprintf("could not check existing orders: %v", err),
			}, ownerEmail, ownerPhone
		}
		if exists {
			return types.SetupStep{
				Step:    types.StepBillingOrder,
				Status:  types.StepSkipped,
				Message: "setup fee order already recorded",
			}, ownerEmail, ownerPhone
		}
	}

	if ownerEmail == "" {
		return types.SetupStep{
			Step:    types.StepBillingOrder,
			Status:  types.StepError,
			Message: "no owner email available, cannot record setup order",
		}, ownerEmail, ownerPhone
	}

	order := &models.Order{
		TenantID:         tenant.ID,
		CustomerEmail:    ownerEmail,
		CustomerName:     ownerName,
		Total:            s.cfg.DomainFeeMXN,
		Currency:         "MXN",
		PaymentMethod:    "domain_setup",
		PaymentReference: reference,
		Status:           models.OrderPaid,
	}
	if err := s.orders.Create(order); err != nil {
		return types.SetupStep{
			Step:    types.StepBillingOrder,
			Status:  types.StepError,
			Message: fmt.Sprintf("failed to record setup fee order: %v", err),
		}, ownerEmail, ownerPhone
	}
	return types.SetupStep{
		Step:    types.StepBillingOrder,
		Status:  types.StepCompleted,
		Message: fmt.Sprintf("setup fee order recorded (%.2f MXN)", s.cfg.DomainFeeMXN),
		Details: map[string]any{"payment_reference": order.PaymentReference},
	}, ownerEmail, ownerPhone
}

// bootstrapStore seeds the four artifacts a fresh storefront needs. Each
// artifact is checked independently so a partially seeded store converges
// across runs.
func (s *Service) bootstrapStore(tenant *models.Tenant, forceAll bool) types.SetupStep {
	details := map[string]any{}
	created := 0
	var failures []string

	seeded, err := s.seedSettings(tenant, forceAll)
	s.fold(details, "settings", seeded, err, &created, &failures)

	var categoryID *uuid.UUID
	categoryID, seeded, err = s.seedCategory(tenant, forceAll)
	s.fold(details, "category", seeded, err, &created, &failures)

	seeded, err = s.seedProduct(tenant, categoryID, forceAll)
	s.fold(details, "product", seeded, err, &created, &failures)

	seeded, err = s.seedOnboarding(tenant, forceAll)
	s.fold(details, "onboarding", seeded, err, &created, &failures)

	switch {
	case len(failures) > 0:
		return types.SetupStep{
			Step:    types.StepStoreBootstrap,
			Status:  types.StepError,
			Message: fmt.Sprintf("store bootstrap incomplete: %d artifact(s) failed", len(failures)),
			Details: details,
		}
	case created == 0:
		return types.SetupStep{
			Step:    types.StepStoreBootstrap,
			Status:  types.StepSkipped,
			Message: "store was already bootstrapped",
			Details: details,
		}
	default:
		return types.SetupStep{
			Step:    types.StepStoreBootstrap,
			Status:  types.StepCompleted,
			Message: fmt.Sprintf("seeded %d store artifact(s)", created),
			Details: details,
		}
	}
}

func (s *Service) fold(details map[string]any, name string, seeded bool, err error, created *int, failures *[]string) {
	switch {
	case err != nil:
		details[name] = "failed: " + err.Error()
		*failures = append(*failures, name)
	case seeded:
		details[name] = "created"
		*created++
	default:
		details[name] = "exists"
	}
}

func (s *Service) seedSettings(tenant *models.Tenant, forceAll bool) (bool, error) {
	if !forceAll {
		if exists, err := s.bootstrap.HasSettings(tenant.ID); err != nil || exists {
			return false, err
		}
	}
	return true, s.bootstrap.CreateSettings(&models.TenantSettings{
		TenantID:  tenant.ID,
		StoreName: tenant.Name,
		Currency:  "MXN",
		Language:  "es",
	})
}

func (s *Service) seedCategory(tenant *models.Tenant, forceAll bool) (*uuid.UUID, bool, error) {
	if !forceAll {
		if exists, err := s.bootstrap.HasCategory(tenant.ID); err != nil || exists {
			return nil, false, err
		}
	}
	category := &models.Category{
		TenantID: tenant.ID,
		Name:     "General",
		Slug:     "general",
	}
	if err := s.bootstrap.CreateCategory(category); err != nil {
		return nil, false, err
	}
	return &category.ID, true, nil
}

func (s *Service) seedProduct(tenant *models.Tenant, categoryID *uuid.UUID, forceAll bool) (bool, error) {
	if !forceAll {
		if exists, err := s.bootstrap.HasProduct(tenant.ID); err != nil || exists {
			return false, err
		}
	}
	return true, s.bootstrap.CreateProduct(&models.Product{
		TenantID:    tenant.ID,
		CategoryID:  categoryID,
		Title:       "Producto de Ejemplo",
		Description: "Edita o elimina este producto desde tu panel.",
		Price:       0,
		Active:      true,
	})
}

func (s *Service) seedOnboarding(tenant *models.Tenant, forceAll bool) (bool, error) {
	if !forceAll {
		if exists, err := s.bootstrap.HasOnboarding(tenant.ID); err != nil || exists {
			return false, err
		}
	}
	return true, s.bootstrap.CreateOnboarding(&models.OnboardingProgress{
		TenantID:       tenant.ID,
		CurrentStep:    "store_ready",
		CompletedSteps: []string{"domain_setup"},
	})
}
