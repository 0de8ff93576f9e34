package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voice2action/civic-service/internal/budget"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

func newTestBudgetService(t *testing.T, reports map[string]int) *BudgetService {
	t.Helper()
	svc, _, _, _ := newTestIssueService(0)
	repo := &memIssueRepo{}
	for category, count := range reports {
		for i := 0; i < count; i++ {
			issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{
				Title:       "report",
				Description: "report",
				Category:    &category,
			})
			require.NoError(t, err)
			repo.issues = append(repo.issues, issue)
		}
	}
	return NewBudgetService(NewMetricsService(repo, &memOrgRepo{}))
}

func TestBudgetNeedsFromRecentReports(t *testing.T) {
	svc := newTestBudgetService(t, map[string]int{"Roads": 6, "Waste": 3, "Flooding": 1})

	result, err := svc.Needs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, result.Needs["Roads"])
	assert.Equal(t, 3, result.Needs["Waste"])
	assert.Equal(t, 1, result.Needs["Flooding"])
	assert.Equal(t, 0, result.Needs["Health"])
	assert.InDelta(t, 60.0, result.Percent["Roads"], 1e-9)
}

func TestBudgetNeedsUniformFallback(t *testing.T) {
	svc := newTestBudgetService(t, nil)

	result, err := svc.Needs(context.Background())
	require.NoError(t, err)
	for _, cat := range budget.Categories {
		assert.Equal(t, 20, result.Needs[cat])
	}
}

func TestBudgetAutoAllocateMatchesNeeds(t *testing.T) {
	svc := newTestBudgetService(t, map[string]int{"Roads": 6, "Waste": 3, "Flooding": 1})

	result, err := svc.AutoAllocate(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 60, result.Plan["Roads"])
	assert.Equal(t, 30, result.Plan["Waste"])
	assert.Equal(t, 10, result.Plan["Flooding"])
	assert.Equal(t, 100, result.AlignmentScore)
}

func TestBudgetEditPlanKeepsTotalInvariant(t *testing.T) {
	svc := newTestBudgetService(t, map[string]int{"Roads": 2})

	result, err := svc.EditPlan(context.Background(), budget.UniformPlan(100), "Health", 90, 100)
	require.NoError(t, err)

	sum := 0
	for _, cat := range budget.Categories {
		sum += result.Plan[cat]
	}
	assert.Equal(t, 100, sum)
}

func TestBudgetValidation(t *testing.T) {
	svc := newTestBudgetService(t, nil)

	_, err := svc.AutoAllocate(context.Background(), budget.MinTotal-1)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Score(context.Background(), map[string]int{"Bridges": 10}, 100)
	require.Error(t, err)

	_, err = svc.EditPlan(context.Background(), budget.UniformPlan(100), "Roads", -5, 100)
	require.Error(t, err)
}
