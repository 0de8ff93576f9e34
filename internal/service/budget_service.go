package service

import (
	"context"

	"github.com/voice2action/civic-service/internal/budget"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// BudgetService runs the participatory-budget simulator against the live
// needs distribution.
type BudgetService struct {
	metrics *MetricsService
}

// NewBudgetService constructs the service.
func NewBudgetService(metrics *MetricsService) *BudgetService {
	return &BudgetService{metrics: metrics}
}

// NeedsResult carries the bucketed needs vector and its percentages.
type NeedsResult struct {
	Needs   map[string]int     `json:"needs"`
	Percent map[string]float64 `json:"percent"`
}

// PlanResult is a plan together with its alignment against current needs.
type PlanResult struct {
	Plan           map[string]int `json:"plan"`
	Total          int            `json:"total"`
	AlignmentScore int            `json:"alignment_score"`
}

// Needs derives the needs vector from the trailing category window.
func (s *BudgetService) Needs(ctx context.Context) (NeedsResult, error) {
	needs, err := s.currentNeeds(ctx)
	if err != nil {
		return NeedsResult{}, err
	}
	return NeedsResult{Needs: needs, Percent: budget.NeedsPercentages(needs)}, nil
}

// EditPlan applies a single-category edit, renormalizes to total, and scores
// the result.
func (s *BudgetService) EditPlan(ctx context.Context, plan map[string]int, category string, value int, total int) (PlanResult, error) {
	if err := validateBudgetInput(plan, total); err != nil {
		return PlanResult{}, err
	}
	if !isBudgetCategory(category) {
		return PlanResult{}, apperrors.NewValidationError("unknown budget category", map[string]any{"category": category})
	}
	if value < 0 {
		return PlanResult{}, apperrors.NewValidationError("plan values must be non-negative", nil)
	}

	edited := budget.SetValue(plan, category, value, total)
	return s.scored(ctx, edited, total)
}

// AutoAllocate builds the plan proportional to current needs.
func (s *BudgetService) AutoAllocate(ctx context.Context, total int) (PlanResult, error) {
	if total < budget.MinTotal {
		return PlanResult{}, apperrors.NewValidationError("total below minimum budget", map[string]any{"min": budget.MinTotal})
	}
	needs, err := s.currentNeeds(ctx)
	if err != nil {
		return PlanResult{}, err
	}
	plan := budget.AutoAllocate(budget.NeedsPercentages(needs), total)
	return PlanResult{Plan: plan, Total: total, AlignmentScore: budget.AlignmentScore(plan, total, budget.NeedsPercentages(needs))}, nil
}

// Score rates an externally supplied plan against current needs.
func (s *BudgetService) Score(ctx context.Context, plan map[string]int, total int) (PlanResult, error) {
	if err := validateBudgetInput(plan, total); err != nil {
		return PlanResult{}, err
	}
	return s.scored(ctx, plan, total)
}

func (s *BudgetService) scored(ctx context.Context, plan map[string]int, total int) (PlanResult, error) {
	needs, err := s.currentNeeds(ctx)
	if err != nil {
		return PlanResult{}, err
	}
	score := budget.AlignmentScore(plan, total, budget.NeedsPercentages(needs))
	return PlanResult{Plan: plan, Total: total, AlignmentScore: score}, nil
}

func (s *BudgetService) currentNeeds(ctx context.Context) (map[string]int, error) {
	series, err := s.metrics.Series(ctx, budget.NeedsWindowDays)
	if err != nil {
		return nil, err
	}
	return budget.BuildNeeds(series.Categories), nil
}

func validateBudgetInput(plan map[string]int, total int) error {
	if total < budget.MinTotal {
		return apperrors.NewValidationError("total below minimum budget", map[string]any{"min": budget.MinTotal})
	}
	for category, value := range plan {
		if !isBudgetCategory(category) {
			return apperrors.NewValidationError("unknown budget category", map[string]any{"category": category})
		}
		if value < 0 {
			return apperrors.NewValidationError("plan values must be non-negative", map[string]any{"category": category})
		}
	}
	return nil
}

func isBudgetCategory(category string) bool {
	for _, known := range budget.Categories {
		if known == category {
			return true
		}
	}
	return false
}
