package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
)

// ReportArchive persists batch recalculation summaries to object
// storage so nightly runs leave an auditable trail.
type ReportArchive struct {
	store ObjectStorage
}

func NewReportArchive(store ObjectStorage) *ReportArchive {
	return &ReportArchive{store: store}
}

// SaveRecalcSummary uploads the summary as JSON keyed by tenant and
// run date. Reruns on the same day overwrite the earlier report.
func (a *ReportArchive) SaveRecalcSummary(ctx context.Context, summary *domain.RecalcSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode recalc summary: %w", err)
	}

	key := fmt.Sprintf("reports/recalc/%d/%s.json",
		summary.TenantID, summary.StartedAt.Format("2006-01-02"))
	if err := a.store.UploadObject(ctx, key, data, "application/json"); err != nil {
		return "", fmt.Errorf("upload recalc summary: %w", err)
	}
	return key, nil
}
