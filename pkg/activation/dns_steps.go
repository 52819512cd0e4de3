package activation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/vercel"
)

// providerServiceType is the serviceType the hosting provider reports once
// it is authoritative for a zone.
const providerServiceType = "zeit.world"

// checkDNSZone gates the workflow: nothing else is attempted until the
// provider has taken over authoritative resolution for the domain.
func (s *Service) checkDNSZone(ctx context.Context, domain string) (*vercel.DomainInfo, bool, types.SetupStep) {
	info, err := s.hosting.GetDomainInfo(ctx, domain)
	if err != nil {
		s.log.Warn("could not fetch domain info",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return nil, false, types.SetupStep{
			Step:    types.StepDNSZoneCheck,
			Status:  types.StepWarning,
			Message: "could not verify DNS zone, will retry",
			Details: map[string]any{"error": err.Error()},
		}
	}

	active := info.ServiceType == providerServiceType ||
		(info.Verified && len(info.Nameservers) > 0)
	if !active {
		return info, false, types.SetupStep{
			Step:    types.StepDNSZoneCheck,
			Status:  types.StepWarning,
			Message: "nameservers are not active at the provider yet",
			Details: map[string]any{
				"service_type":         info.ServiceType,
				"detected_nameservers": info.Nameservers,
				"intended_nameservers": info.IntendedNameservers,
			},
		}
	}

	return info, true, types.SetupStep{
		Step:    types.StepDNSZoneCheck,
		Status:  types.StepCompleted,
		Message: "DNS zone is active",
		Details: map[string]any{
			"service_type": info.ServiceType,
			"nameservers":  info.Nameservers,
		},
	}
}

// attachDomain idempotently attaches one hostname to the hosting project.
// A failure here does not abort the run; later steps are independent.
func (s *Service) attachDomain(ctx context.Context, stepName, name string) types.SetupStep {
	outcome, err := s.hosting.AddProjectDomain(ctx, name)
	if err != nil {
		details := map[string]any{"domain": name}
		var apiErr *vercel.APIError
		if errors.As(err, &apiErr) {
			details["code"] = apiErr.Code
		}
		return types.SetupStep{
			Step:    stepName,
			Status:  types.StepError,
			Message: fmt.Sprintf("failed to attach %s: %v", name, err),
			Details: details,
		}
	}

	message := fmt.Sprintf("%s attached to project", name)
	if outcome == vercel.OutcomeAlreadyExists {
		message = fmt.Sprintf("%s was already attached", name)
	}
	return types.SetupStep{
		Step:    stepName,
		Status:  types.StepCompleted,
		Message: message,
	}
}

// writeDNSRecords creates the A records for every provider IP and the www
// CNAME. Individual record failures are tolerated; an invalid_zone rejection
// means the provider lost authority again and aborts only this step.
func (s *Service) writeDNSRecords(ctx context.Context, domain string) types.SetupStep {
	results := map[string]any{}
	var failures []string

	for _, ip := range s.cfg.ARecordIPs {
		outcome, err := s.hosting.CreateDNSRecord(ctx, domain, vercel.DNSRecord{
			Type:  "A",
			Name:  "",
			Value: ip,
		})
		key := "A " + ip
		switch {
		case errors.Is(err, vercel.ErrInvalidZone):
			return types.SetupStep{
				Step:    types.StepDNSRecords,
				Status:  types.StepError,
				Message: "provider is not authoritative for the zone yet",
				Details: map[string]any{"code": "invalid_zone", "record": key},
			}
		case err != nil:
			results[key] = "failed"
			failures = append(failures, fmt.Sprintf("%s: %v", key, err))
		case outcome == vercel.OutcomeAlreadyExists:
			results[key] = "exists"
		default:
			results[key] = "created"
		}
	}

	outcome, err := s.hosting.CreateDNSRecord(ctx, domain, vercel.DNSRecord{
		Type:  "CNAME",
		Name:  "www",
		Value: s.cfg.CNAMETarget,
	})
	switch {
	case errors.Is(err, vercel.ErrInvalidZone):
		return types.SetupStep{
			Step:    types.StepDNSRecords,
			Status:  types.StepError,
			Message: "provider is not authoritative for the zone yet",
			Details: map[string]any{"code": "invalid_zone", "record": "CNAME www"},
		}
	case err != nil:
		results["CNAME www"] = "failed"
		failures = append(failures, fmt.Sprintf("CNAME www: %v", err))
	case outcome == vercel.OutcomeAlreadyExists:
		results["CNAME www"] = "exists"
	default:
		results["CNAME www"] = "created"
	}

	if len(failures) > 0 {
		return types.SetupStep{
			Step:    types.StepDNSRecords,
			Status:  types.StepError,
			Message: fmt.Sprintf("%d record writes failed", len(failures)),
			Details: map[string]any{"records": results, "failures": failures},
		}
	}
	return types.SetupStep{
		Step:    types.StepDNSRecords,
		Status:  types.StepCompleted,
		Message: "A and CNAME records in place",
		Details: map[string]any{"records": results},
	}
}

// configureRedirect points www at the root domain. The storefront is
// reachable without it, so a failure only warrants a warning.
func (s *Service) configureRedirect(ctx context.Context, domain string) types.SetupStep {
	if s.cfg.PropagationDelay > 0 {
		select {
		case <-time.After(s.cfg.PropagationDelay):
		case <-ctx.Done():
		}
	}

	if err := s.hosting.SetRedirect(ctx, "www."+domain, domain, 301); err != nil {
		return types.SetupStep{
			Step:    types.StepWWWRedirect,
			Status:  types.StepWarning,
			Message: fmt.Sprintf("could not configure www redirect: %v", err),
		}
	}
	return types.SetupStep{
		Step:    types.StepWWWRedirect,
		Status:  types.StepCompleted,
		Message: fmt.Sprintf("www.%s redirects to %s", domain, domain),
	}
}
