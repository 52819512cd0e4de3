package activation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/models"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
)

func step(name, status string) types.SetupStep {
	return types.SetupStep{Step: name, Status: status, Message: name}
}

func zonePendingStep(name string) types.SetupStep {
	return types.SetupStep{
		Step:    name,
		Status:  types.StepError,
		Message: "zone not authoritative",
		Details: map[string]any{"code": "invalid_zone"},
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		steps []types.SetupStep
		want  string
	}{
		{
			name: "all completed",
			steps: []types.SetupStep{
				step(types.StepLoadRecord, types.StepCompleted),
				step(types.StepDNSRecords, types.StepCompleted),
			},
			want: models.PurchaseActive,
		},
		{
			name: "warnings and skips stay active",
			steps: []types.SetupStep{
				step(types.StepLoadRecord, types.StepCompleted),
				step(types.StepWWWRedirect, types.StepWarning),
				step(types.StepBillingOrder, types.StepSkipped),
			},
			want: models.PurchaseActive,
		},
		{
			name: "hard error fails the run",
			steps: []types.SetupStep{
				step(types.StepLoadRecord, types.StepCompleted),
				step(types.StepAttachRoot, types.StepError),
			},
			want: models.PurchaseFailed,
		},
		{
			name: "zone pending error softens to dns_pending",
			steps: []types.SetupStep{
				step(types.StepLoadRecord, types.StepCompleted),
				step(types.StepAttachRoot, types.StepCompleted),
				zonePendingStep(types.StepDNSRecords),
			},
			want: models.PurchaseDNSPending,
		},
		{
			name: "zone pending wins over other errors",
			steps: []types.SetupStep{
				zonePendingStep(types.StepDNSRecords),
				step(types.StepBillingOrder, types.StepError),
			},
			want: models.PurchaseDNSPending,
		},
		{
			name:  "empty step list",
			steps: nil,
			want:  models.PurchaseActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.steps))
		})
	}
}

func TestFoldMetadataErrorHistoryOrder(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	run1 := []types.SetupStep{step(types.StepAttachRoot, types.StepError)}
	meta := FoldMetadata(models.PurchaseMetadata{}, run1, models.PurchaseFailed, t1)

	assert.Equal(t, 1, meta.RetryCount)
	assert.Len(t, meta.ErrorHistory, 1)
	assert.Equal(t, types.StepAttachRoot, meta.ErrorHistory[0].Step)

	run2 := []types.SetupStep{step(types.StepDNSRecords, types.StepError)}
	meta = FoldMetadata(meta, run2, models.PurchaseFailed, t2)

	assert.Equal(t, 2, meta.RetryCount)
	assert.Len(t, meta.ErrorHistory, 2)
	assert.Equal(t, types.StepDNSRecords, meta.ErrorHistory[0].Step, "newest entry first")
	assert.Equal(t, types.StepAttachRoot, meta.ErrorHistory[1].Step)
	assert.Equal(t, run2, meta.SetupSteps, "steps are replaced, not appended")
	assert.Contains(t, meta.LastError, types.StepDNSRecords)
}

func TestFoldMetadataBoundsHistory(t *testing.T) {
	meta := models.PurchaseMetadata{}
	now := time.Now().UTC()
	for i := 0; i < models.MaxErrorHistory+10; i++ {
		meta = FoldMetadata(meta, []types.SetupStep{step(types.StepAttachRoot, types.StepError)}, models.PurchaseFailed, now)
	}
	assert.Len(t, meta.ErrorHistory, models.MaxErrorHistory)
}

func TestFoldMetadataSuccessfulRun(t *testing.T) {
	now := time.Now().UTC()
	meta := models.PurchaseMetadata{RetryCount: 3, LastError: "old failure"}
	meta = FoldMetadata(meta, []types.SetupStep{step(types.StepLoadRecord, types.StepCompleted)}, models.PurchaseActive, now)

	assert.Equal(t, 3, meta.RetryCount, "successful runs do not advance retry_count")
	assert.Empty(t, meta.LastError)
	assert.Equal(t, "active", meta.DNSStatus)
	assert.NotNil(t, meta.LastCheckedAt)
}

func TestFoldMetadataDNSPendingRun(t *testing.T) {
	now := time.Now().UTC()
	meta := FoldMetadata(models.PurchaseMetadata{}, []types.SetupStep{zonePendingStep(types.StepDNSRecords)}, models.PurchaseDNSPending, now)

	assert.Equal(t, 0, meta.RetryCount, "dns_pending runs do not advance retry_count")
	assert.Equal(t, "pending", meta.DNSStatus)
	assert.Len(t, meta.ErrorHistory, 1)
}
