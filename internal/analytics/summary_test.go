package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voice2action/civic-service/internal/domain"
)

var baseTime = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func issueAt(created time.Time, category domain.Category, status domain.Status) domain.Issue {
	return domain.Issue{
		Category:  category,
		Status:    status,
		CreatedAt: created,
	}
}

func withTimes(issue domain.Issue, firstResponse, resolved *time.Time) domain.Issue {
	issue.FirstResponseAt = firstResponse
	issue.ResolvedAt = resolved
	return issue
}

func ptr(t time.Time) *time.Time { return &t }

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	require.Equal(t, 0, summary.Total)
	require.Equal(t, 0, summary.Resolved)
	require.Equal(t, 0, summary.ResolveRate)
	require.Equal(t, 0, summary.AvgFirstResponseHours)
	require.Equal(t, 0, summary.AvgResolutionHours)
	require.Empty(t, summary.Categories)
}

func TestSummarizeResolveRate(t *testing.T) {
	var issues []domain.Issue
	for i := 0; i < 10; i++ {
		status := domain.StatusReceived
		if i < 3 {
			status = domain.StatusResolved
		}
		issues = append(issues, issueAt(baseTime, domain.CategoryGeneral, status))
	}

	summary := Summarize(issues)
	require.Equal(t, 10, summary.Total)
	require.Equal(t, 3, summary.Resolved)
	require.Equal(t, 30, summary.ResolveRate)
}

func TestSummarizeAverageHours(t *testing.T) {
	issues := []domain.Issue{
		withTimes(issueAt(baseTime, domain.CategoryRoads, domain.StatusResolved),
			ptr(baseTime.Add(2*time.Hour)), ptr(baseTime.Add(10*time.Hour))),
		withTimes(issueAt(baseTime, domain.CategoryRoads, domain.StatusInProcess),
			ptr(baseTime.Add(4*time.Hour)), nil),
		// Never left RECEIVED: excluded from both averages.
		issueAt(baseTime, domain.CategoryWaste, domain.StatusReceived),
	}

	summary := Summarize(issues)
	require.Equal(t, 3, summary.AvgFirstResponseHours)
	require.Equal(t, 10, summary.AvgResolutionHours)
}

func TestSummarizeCategoryOrdering(t *testing.T) {
	issues := []domain.Issue{
		issueAt(baseTime, domain.CategoryWaste, domain.StatusReceived),
		issueAt(baseTime, domain.CategoryWaste, domain.StatusReceived),
		issueAt(baseTime, domain.CategoryRoads, domain.StatusReceived),
		issueAt(baseTime, domain.CategoryFlooding, domain.StatusReceived),
	}

	summary := Summarize(issues)
	require.Equal(t, []CategoryCount{
		{Category: "Waste", Count: 2},
		{Category: "Flooding", Count: 1}, // count tie broken by name
		{Category: "Roads", Count: 1},
	}, summary.Categories)
}

func TestSeriesWindowExcludesOldIssues(t *testing.T) {
	now := baseTime
	issues := []domain.Issue{
		issueAt(now.Add(-2*24*time.Hour), domain.CategoryRoads, domain.StatusReceived),
		issueAt(now.Add(-2*24*time.Hour), domain.CategoryRoads, domain.StatusReceived),
		issueAt(now.Add(-10*24*time.Hour), domain.CategoryWaste, domain.StatusReceived),
		// Outside the 30-day window entirely.
		issueAt(now.Add(-40*24*time.Hour), domain.CategoryHealth, domain.StatusReceived),
	}

	result := Series(issues, now, 30)
	require.Equal(t, []DayCount{
		{Day: "2024-05-31", Count: 1},
		{Day: "2024-06-08", Count: 2},
	}, result.Series)
	require.Equal(t, []CategoryCount{
		{Category: "Roads", Count: 2},
		{Category: "Waste", Count: 1},
	}, result.Categories)
}

func TestSeriesSparseDaysAbsent(t *testing.T) {
	now := baseTime
	result := Series([]domain.Issue{
		issueAt(now.Add(-24*time.Hour), domain.CategoryRoads, domain.StatusReceived),
		issueAt(now.Add(-5*24*time.Hour), domain.CategoryRoads, domain.StatusReceived),
	}, now, 7)
	require.Len(t, result.Series, 2, "days without issues must not be zero-filled")
}

func TestClampSeriesDays(t *testing.T) {
	require.Equal(t, DefaultSeriesDays, ClampSeriesDays(0))
	require.Equal(t, DefaultSeriesDays, ClampSeriesDays(-5))
	require.Equal(t, 60, ClampSeriesDays(60))
	require.Equal(t, MaxSeriesDays, ClampSeriesDays(400))
}

func TestWardStats(t *testing.T) {
	w12, w01 := "W-12", "W-01"
	issues := []domain.Issue{
		{WardCode: &w12, Status: domain.StatusResolved, CreatedAt: baseTime},
		{WardCode: &w12, Status: domain.StatusReceived, CreatedAt: baseTime},
		{WardCode: &w01, Status: domain.StatusReceived, CreatedAt: baseTime},
		// No ward code: excluded.
		{Status: domain.StatusReceived, CreatedAt: baseTime},
	}

	stats := WardStats(issues)
	require.Equal(t, []WardStat{
		{WardCode: "W-01", Total: 1, Resolved: 0, Open: 1},
		{WardCode: "W-12", Total: 2, Resolved: 1, Open: 1},
	}, stats)
}
