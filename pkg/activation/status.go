package activation

import (
	"strings"
	"time"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
)

// DeriveStatus reduces a run's step list to the purchase status. Warnings
// and skips never fail a run. When errors are present, a zone-pending error
// wins over hard failures: the whole run is worth retrying once the zone
// becomes authoritative.
func DeriveStatus(steps []types.SetupStep) string {
	errored := false
	zonePending := false
	for _, step := range steps {
		if step.Status == types.StepError {
			errored = true
			if step.ZonePending() {
				zonePending = true
			}
		}
	}
	switch {
	case !errored:
		return models.PurchaseActive
	case zonePending:
		return models.PurchaseDNSPending
	default:
		return models.PurchaseFailed
	}
}

// FoldMetadata merges one run's outcome into the purchase metadata:
// setup_steps is replaced wholesale, new errors are prepended to the
// history, and retry_count advances only on failed runs.
func FoldMetadata(meta models.PurchaseMetadata, steps []types.SetupStep, finalStatus string, now time.Time) models.PurchaseMetadata {
	meta.SetupSteps = steps

	var entries []types.ErrorEntry
	var messages []string
	for _, step := range steps {
		if step.Status != types.StepError {
			continue
		}
		entries = append(entries, types.ErrorEntry{
			Step:       step.Step,
			Message:    step.Message,
			OccurredAt: now,
		})
		messages = append(messages, step.Step+": "+step.Message)
	}
	if len(entries) > 0 {
		meta.ErrorHistory = append(entries, meta.ErrorHistory...)
		if len(meta.ErrorHistory) > models.MaxErrorHistory {
			meta.ErrorHistory = meta.ErrorHistory[:models.MaxErrorHistory]
		}
		meta.LastError = strings.Join(messages, "; ")
	}

	switch finalStatus {
	case models.PurchaseFailed:
		meta.RetryCount++
		meta.DNSStatus = "active"
	case models.PurchaseDNSPending:
		meta.DNSStatus = "pending"
	case models.PurchaseActive:
		meta.DNSStatus = "active"
		meta.LastError = ""
	}
	meta.LastCheckedAt = &now
	return meta
}
