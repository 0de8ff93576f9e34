// Package analytics computes aggregate performance metrics over issue
// snapshots. All functions are pure: the caller fetches the in-scope issues
// and passes them in, so results are point-in-time and never cached here.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/voice2action/civic-service/internal/domain"
)

const (
	// MaxSeriesDays caps the time-series window.
	MaxSeriesDays = 365
	// DefaultSeriesDays is used when the caller supplies no window.
	DefaultSeriesDays = 30
)

// CategoryCount is one row of a category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DayCount is one day of the creation time series. Days with no issues are
// absent rather than zero-filled.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WardStat summarizes one ward's open/resolved split.
type WardStat struct {
	WardCode string `json:"wardCode"`
	Total    int    `json:"total"`
	Resolved int    `json:"resolved"`
	Open     int    `json:"open"`
}

// Summary is the aggregate scorecard for a set of issues.
type Summary struct {
	Total                 int             `json:"total"`
	Resolved              int             `json:"resolved"`
	ResolveRate           int             `json:"resolve_rate"`
	AvgFirstResponseHours int             `json:"avg_first_response_hours"`
	AvgResolutionHours    int             `json:"avg_resolution_hours"`
	Categories            []CategoryCount `json:"categories"`
}

// SeriesResult bundles the sparse per-day counts with the category breakdown
// over the same window.
type SeriesResult struct {
	Series     []DayCount      `json:"series"`
	Categories []CategoryCount `json:"categories"`
}

// Summarize computes the scorecard for the given issues. An empty input is a
// valid scope and yields all-zero values.
func Summarize(issues []domain.Issue) Summary {
	summary := Summary{Categories: []CategoryCount{}}
	summary.Total = len(issues)

	var firstResponse, resolution []float64
	for _, issue := range issues {
		if issue.Status == domain.StatusResolved {
			summary.Resolved++
		}
		if issue.FirstResponseAt != nil {
			firstResponse = append(firstResponse, issue.FirstResponseAt.Sub(issue.CreatedAt).Hours())
		}
		if issue.ResolvedAt != nil {
			resolution = append(resolution, issue.ResolvedAt.Sub(issue.CreatedAt).Hours())
		}
	}

	if summary.Total > 0 {
		summary.ResolveRate = int(math.Round(100 * float64(summary.Resolved) / float64(summary.Total)))
	}
	summary.AvgFirstResponseHours = roundedMean(firstResponse)
	summary.AvgResolutionHours = roundedMean(resolution)
	summary.Categories = CountCategories(issues)
	return summary
}

// CountCategories groups issues by category, descending by count with
// category name as the deterministic tie-break.
func CountCategories(issues []domain.Issue) []CategoryCount {
	byCategory := make(map[string]int)
	for _, issue := range issues {
		byCategory[string(issue.Category)]++
	}
	counts := make([]CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		counts = append(counts, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts
}

// ClampSeriesDays normalizes a requested window to [1, MaxSeriesDays],
// applying the default for non-positive input.
func ClampSeriesDays(days int) int {
	if days <= 0 {
		return DefaultSeriesDays
	}
	if days > MaxSeriesDays {
		return MaxSeriesDays
	}
	return days
}

// Series buckets issues created within the last `days` days by UTC calendar
// day, ascending. Issues outside the window are excluded from both the series
// and the category breakdown.
func Series(issues []domain.Issue, now time.Time, days int) SeriesResult {
	days = ClampSeriesDays(days)
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	inWindow := issues[:0:0]
	byDay := make(map[string]int)
	for _, issue := range issues {
		if issue.CreatedAt.Before(since) {
			continue
		}
		inWindow = append(inWindow, issue)
		byDay[issue.CreatedAt.UTC().Format("2006-01-02")]++
	}

	series := make([]DayCount, 0, len(byDay))
	for day, count := range byDay {
		series = append(series, DayCount{Day: day, Count: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day < series[j].Day })

	return SeriesResult{Series: series, Categories: CountCategories(inWindow)}
}

// WardStats aggregates per-ward totals over issues carrying a non-empty ward
// code, ascending by code.
func WardStats(issues []domain.Issue) []WardStat {
	type tally struct{ total, resolved int }
	byWard := make(map[string]*tally)
	for _, issue := range issues {
		if issue.WardCode == nil || *issue.WardCode == "" {
			continue
		}
		t := byWard[*issue.WardCode]
		if t == nil {
			t = &tally{}
			byWard[*issue.WardCode] = t
		}
		t.total++
		if issue.Status == domain.StatusResolved {
			t.resolved++
		}
	}

	result := make([]WardStat, 0, len(byWard))
	for code, t := range byWard {
		result = append(result, WardStat{
			WardCode: code,
			Total:    t.total,
			Resolved: t.resolved,
			Open:     t.total - t.resolved,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WardCode < result[j].WardCode })
	return result
}

func roundedMean(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return int(math.Round(mean))
}
