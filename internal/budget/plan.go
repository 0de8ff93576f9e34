// Package budget implements the participatory-budget alignment simulator: a
// needs distribution derived from historical category volume, a
// fixed-total spending plan with deterministic renormalization, and an
// alignment score comparing the two.
package budget

import (
	"math"
	"strings"

	"github.com/voice2action/civic-service/internal/analytics"
)

// Categories is the fixed budget category order. The first entry absorbs any
// rounding residue, so the order is part of the contract.
var Categories = []string{"Roads", "Waste", "Flooding", "Health", "Education"}

const (
	// DefaultTotal is the default plan budget.
	DefaultTotal = 100
	// MinTotal is the smallest accepted plan budget.
	MinTotal = 10
	// NeedsWindowDays is the trailing window the needs vector is built from.
	NeedsWindowDays = 60
)

// BuildNeeds buckets aggregated category counts into the five budget
// categories by substring matching. Labels matching no bucket are dropped. A
// zero-sum result falls back to a uniform distribution.
func BuildNeeds(counts []analytics.CategoryCount) map[string]int {
	needs := emptyVector()
	for _, c := range counts {
		label := strings.ToLower(c.Category)
		switch {
		case strings.Contains(label, "road"):
			needs["Roads"] += c.Count
		case strings.Contains(label, "waste"):
			needs["Waste"] += c.Count
		case strings.Contains(label, "flood"):
			needs["Flooding"] += c.Count
		case strings.Contains(label, "health"):
			needs["Health"] += c.Count
		case strings.Contains(label, "educ"):
			needs["Education"] += c.Count
		}
	}
	if vectorSum(needs) == 0 {
		for _, cat := range Categories {
			needs[cat] = 20
		}
	}
	return needs
}

// NeedsPercentages converts a needs vector to percentages of its sum.
func NeedsPercentages(needs map[string]int) map[string]float64 {
	sum := vectorSum(needs)
	pct := make(map[string]float64, len(Categories))
	for _, cat := range Categories {
		if sum > 0 {
			pct[cat] = 100 * float64(needs[cat]) / float64(sum)
		} else {
			pct[cat] = 0
		}
	}
	return pct
}

// UniformPlan spreads total evenly, residue to the first category.
func UniformPlan(total int) map[string]int {
	plan := emptyVector()
	for _, cat := range Categories {
		plan[cat] = total / len(Categories)
	}
	plan[Categories[0]] += total - vectorSum(plan)
	return plan
}

// SetValue applies a single-category edit and renormalizes the plan back to
// total: every value is rescaled proportionally, rounded to the nearest
// integer, and the rounding residue is added to the first category, clamped
// to [0, total]. A plan already summing to total is returned unchanged apart
// from the edit.
func SetValue(plan map[string]int, category string, value int, total int) map[string]int {
	edited := clonePlan(plan)
	edited[category] = value
	sum := vectorSum(edited)
	if sum == total {
		return edited
	}
	rescaled := scaleToTotal(edited, sum, total)
	residue := total - vectorSum(rescaled)
	if residue != 0 {
		first := Categories[0]
		rescaled[first] = clampInt(rescaled[first]+residue, 0, total)
	}
	return rescaled
}

// Rescale proportionally adjusts the plan to a new total, with the rounding
// residue absorbed by the first category.
func Rescale(plan map[string]int, newTotal int) map[string]int {
	rescaled := scaleToTotal(plan, vectorSum(plan), newTotal)
	rescaled[Categories[0]] += newTotal - vectorSum(rescaled)
	return rescaled
}

// AutoAllocate sets the plan directly proportional to the needs percentages,
// residue to the first category.
func AutoAllocate(needsPct map[string]float64, total int) map[string]int {
	plan := emptyVector()
	for _, cat := range Categories {
		plan[cat] = int(math.Round(float64(total) * needsPct[cat] / 100))
	}
	plan[Categories[0]] += total - vectorSum(plan)
	return plan
}

// AlignmentScore measures how well the plan tracks the needs distribution:
// 100 minus half the total variation distance between the two percentage
// distributions, rounded. Identical distributions score 100; fully disjoint
// ones score 0.
func AlignmentScore(plan map[string]int, total int, needsPct map[string]float64) int {
	var distance float64
	for _, cat := range Categories {
		planPct := 0.0
		if total > 0 {
			planPct = 100 * float64(plan[cat]) / float64(total)
		}
		distance += math.Abs(planPct-needsPct[cat]) / 100
	}
	return int(math.Round(100 * (1 - 0.5*distance)))
}

func scaleToTotal(plan map[string]int, sum, total int) map[string]int {
	if sum == 0 {
		sum = 1
	}
	scale := float64(total) / float64(sum)
	scaled := emptyVector()
	for _, cat := range Categories {
		scaled[cat] = int(math.Round(float64(plan[cat]) * scale))
	}
	return scaled
}

func emptyVector() map[string]int {
	v := make(map[string]int, len(Categories))
	for _, cat := range Categories {
		v[cat] = 0
	}
	return v
}

func clonePlan(plan map[string]int) map[string]int {
	cloned := emptyVector()
	for _, cat := range Categories {
		cloned[cat] = plan[cat]
	}
	return cloned
}

func vectorSum(v map[string]int) int {
	sum := 0
	for _, cat := range Categories {
		sum += v[cat]
	}
	return sum
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
