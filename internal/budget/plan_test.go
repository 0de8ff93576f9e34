package budget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voice2action/civic-service/internal/analytics"
)

func TestBuildNeedsBucketsBySubstring(t *testing.T) {
	counts := []analytics.CategoryCount{
		{Category: "Roads", Count: 5},
		{Category: "road repair", Count: 2},
		{Category: "Waste", Count: 3},
		{Category: "Flooding", Count: 1},
		{Category: "HEALTH services", Count: 4},
		{Category: "General", Count: 9}, // no bucket, dropped
	}

	needs := BuildNeeds(counts)
	require.Equal(t, 7, needs["Roads"])
	require.Equal(t, 3, needs["Waste"])
	require.Equal(t, 1, needs["Flooding"])
	require.Equal(t, 4, needs["Health"])
	require.Equal(t, 0, needs["Education"])
}

func TestBuildNeedsUniformFallback(t *testing.T) {
	needs := BuildNeeds([]analytics.CategoryCount{{Category: "General", Count: 12}})
	for _, cat := range Categories {
		require.Equal(t, 20, needs[cat])
	}
}

func TestSetValueKeepsExactTotal(t *testing.T) {
	plan := UniformPlan(100)

	edits := []struct {
		category string
		value    int
	}{
		{"Waste", 55},
		{"Roads", 0},
		{"Education", 33},
		{"Flooding", 99},
		{"Health", 7},
	}
	for _, edit := range edits {
		plan = SetValue(plan, edit.category, edit.value, 100)
		sum := 0
		for _, cat := range Categories {
			require.GreaterOrEqual(t, plan[cat], 0)
			sum += plan[cat]
		}
		require.Equal(t, 100, sum, "plan must sum to total after editing %s", edit.category)
	}
}

func TestSetValueResidueGoesToFirstCategory(t *testing.T) {
	// Equal thirds scale to 33.33 each and round to 99; the missing unit is
	// added to the first category.
	plan := map[string]int{"Roads": 3, "Waste": 3, "Flooding": 3, "Health": 0, "Education": 0}
	result := SetValue(plan, "Health", 0, 100)

	sum := 0
	for _, cat := range Categories {
		sum += result[cat]
	}
	require.Equal(t, 100, sum)
	require.Equal(t, 33, result["Waste"])
	require.Equal(t, 33, result["Flooding"])
	require.Equal(t, 34, result["Roads"], "residue must be absorbed by the first category")
}

func TestSetValueNoRescaleWhenSumAlreadyMatches(t *testing.T) {
	plan := map[string]int{"Roads": 20, "Waste": 30, "Flooding": 10, "Health": 20, "Education": 10}
	result := SetValue(plan, "Waste", 40, 100)
	require.Equal(t, 40, result["Waste"])
	require.Equal(t, 20, result["Roads"])
}

func TestAutoAllocateMatchesNeeds(t *testing.T) {
	needs := map[string]int{"Roads": 6, "Waste": 3, "Flooding": 1, "Health": 0, "Education": 0}
	pct := NeedsPercentages(needs)

	plan := AutoAllocate(pct, 100)
	require.Equal(t, 60, plan["Roads"])
	require.Equal(t, 30, plan["Waste"])
	require.Equal(t, 10, plan["Flooding"])
	require.Equal(t, 100, AlignmentScore(plan, 100, pct))
}

func TestAutoAllocateResidue(t *testing.T) {
	// Thirds do not round to an exact 100: 33+33+33 leaves 1 for Roads.
	needs := map[string]int{"Roads": 1, "Waste": 1, "Flooding": 1, "Health": 0, "Education": 0}
	plan := AutoAllocate(NeedsPercentages(needs), 100)

	sum := 0
	for _, cat := range Categories {
		sum += plan[cat]
	}
	require.Equal(t, 100, sum)
	require.Equal(t, 34, plan["Roads"])
	require.Equal(t, 33, plan["Waste"])
	require.Equal(t, 33, plan["Flooding"])
}

func TestAlignmentScoreExtremes(t *testing.T) {
	uniformPct := NeedsPercentages(map[string]int{"Roads": 20, "Waste": 20, "Flooding": 20, "Health": 20, "Education": 20})
	require.Equal(t, 100, AlignmentScore(UniformPlan(100), 100, uniformPct))

	allRoads := map[string]int{"Roads": 100, "Waste": 0, "Flooding": 0, "Health": 0, "Education": 0}
	allEducationPct := NeedsPercentages(map[string]int{"Roads": 0, "Waste": 0, "Flooding": 0, "Health": 0, "Education": 50})
	require.Equal(t, 0, AlignmentScore(allRoads, 100, allEducationPct))
}

func TestRescale(t *testing.T) {
	plan := UniformPlan(100)
	rescaled := Rescale(plan, 60)

	sum := 0
	for _, cat := range Categories {
		sum += rescaled[cat]
	}
	require.Equal(t, 60, sum)
	require.Equal(t, 12, rescaled["Waste"])
}

func TestNeedsPercentagesZeroSum(t *testing.T) {
	pct := NeedsPercentages(map[string]int{})
	for _, cat := range Categories {
		require.Zero(t, pct[cat])
	}
}
