package triage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voice2action/civic-service/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Category
	}{
		{"road keyword", "pothole on the road", domain.CategoryRoads},
		{"waste keyword", "Garbage not collected for a week", domain.CategoryWaste},
		{"flooding keyword", "drain blocked, waterlogging everywhere", domain.CategoryFlooding},
		{"health keyword", "no doctor at the clinic", domain.CategoryHealth},
		{"education keyword", "school roof leaking", domain.CategoryEducation},
		{"bengali road keyword", "রাস্তা ভাঙা", domain.CategoryRoads},
		{"no match falls back", "random unrelated text", domain.CategoryGeneral},
		{"empty text", "", domain.CategoryGeneral},
		{"case insensitive", "POTHOLE near the market", domain.CategoryRoads},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyRuleOrderBreaksTies(t *testing.T) {
	// Matches both the Roads and Waste rule sets; the first-listed rule wins.
	require.Equal(t, domain.CategoryRoads, Classify("garbage dumped on the road"))
	// Flooding before Health in rule order.
	require.Equal(t, domain.CategoryFlooding, Classify("flood water reaching the hospital"))
}

func TestLexiconScorer(t *testing.T) {
	scorer := NewLexiconScorer()

	require.Equal(t, 0, scorer.Score(""))
	require.Equal(t, 0, scorer.Score("completely neutral wording"))
	require.Negative(t, scorer.Score("dangerous broken bridge, urgent"))
	require.Positive(t, scorer.Score("thanks, the park is clean and nice now"))

	// Punctuation must not hide lexicon words.
	require.Equal(t, scorer.Score("terrible"), scorer.Score("terrible!"))

	// Mixed tone sums individual weights.
	mixed := scorer.Score("good road, terrible drain")
	require.Equal(t, scorer.Score("good")+scorer.Score("terrible"), mixed)
}
