package service

import (
	"context"
	"time"

	"github.com/voice2action/civic-service/internal/analytics"
	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/repository"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// MetricsService produces aggregate scorecards from point-in-time issue
// snapshots. It holds no state between calls.
type MetricsService struct {
	issues repository.IssueRepository
	orgs   repository.OrganizationRepository
}

// NewMetricsService constructs the service.
func NewMetricsService(issues repository.IssueRepository, orgs repository.OrganizationRepository) *MetricsService {
	return &MetricsService{issues: issues, orgs: orgs}
}

// Summary aggregates the whole collection, or a single organization when
// orgCode is non-nil.
func (s *MetricsService) Summary(ctx context.Context, orgCode *string) (analytics.Summary, error) {
	issues, err := s.snapshot(ctx, orgCode)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(issues), nil
}

// OrgSummary aggregates one organization, failing with a typed not-found for
// unknown codes.
func (s *MetricsService) OrgSummary(ctx context.Context, orgCode string) (analytics.Summary, error) {
	if _, err := s.orgs.GetByCode(ctx, orgCode); err != nil {
		if apperrors.IsNotFound(err) {
			return analytics.Summary{}, apperrors.NewNotFound("organization", map[string]any{"code": orgCode})
		}
		return analytics.Summary{}, apperrors.MapError(err)
	}
	return s.Summary(ctx, &orgCode)
}

// Series buckets recent issue volume by UTC day over a capped trailing window.
func (s *MetricsService) Series(ctx context.Context, days int) (analytics.SeriesResult, error) {
	days = analytics.ClampSeriesDays(days)
	now := time.Now()
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	issues, err := s.issues.ListCreatedSince(ctx, since)
	if err != nil {
		return analytics.SeriesResult{}, apperrors.MapError(err)
	}
	return analytics.Series(issues, now, days), nil
}

// WardStats aggregates per-ward totals over the whole collection.
func (s *MetricsService) WardStats(ctx context.Context) ([]analytics.WardStat, error) {
	issues, err := s.issues.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return analytics.WardStats(issues), nil
}

func (s *MetricsService) snapshot(ctx context.Context, orgCode *string) ([]domain.Issue, error) {
	if orgCode != nil && *orgCode != "" {
		issues, err := s.issues.ListByOrg(ctx, *orgCode)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return issues, nil
	}
	issues, err := s.issues.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}
