package report

import (
	"context"
	"strings"

	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"
)

// DefaultTopN is used when the caller does not say how many critical
// reports they want.
const DefaultTopN = 5

// QueryService exposes the read paths. All three listings are built from
// one canonical severity-descending producer so their ordering can never
// diverge.
type QueryService struct {
	Storage storage.Storage
}

// NewQueryService creates a new query service.
func NewQueryService(s storage.Storage) *QueryService {
	return &QueryService{Storage: s}
}

// ListBySeverity returns every stored report, severity-descending.
// Index entries whose record is missing are skipped, not surfaced: the
// record write precedes the index write, so a stale entry only means a
// crashed or in-flight submission.
func (s *QueryService) ListBySeverity(ctx context.Context) ([]models.Report, error) {
	ids, err := s.Storage.ReportIDsBySeverity(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.Storage.GetReport(ctx, id)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

// ListByLocation filters the canonical order down to reports whose
// location contains loc as a case-insensitive substring.
func (s *QueryService) ListByLocation(ctx context.Context, loc string) ([]models.Report, error) {
	all, err := s.ListBySeverity(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(loc)
	matches := make([]models.Report, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Location), needle) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// TopCritical returns the first n reports of the canonical order.
// A non-positive n yields an empty list.
func (s *QueryService) TopCritical(ctx context.Context, n int) ([]models.Report, error) {
	if n <= 0 {
		return []models.Report{}, nil
	}
	all, err := s.ListBySeverity(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}
