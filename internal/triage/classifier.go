package triage

import (
	"strings"

	"github.com/voice2action/civic-service/internal/domain"
)

// categoryRule pairs a category with the keywords that select it. Rule order
// is the tie-break: the first rule with any substring match wins.
type categoryRule struct {
	category domain.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategoryRoads, []string{"road", "গর্ত", "রাস্তা", "pothole", "bridge"}},
	{domain.CategoryWaste, []string{"garbage", "waste", "ময়লা", "dustbin", "collection"}},
	{domain.CategoryFlooding, []string{"waterlogging", "flood", "জলাবদ্ধতা", "drain"}},
	{domain.CategoryHealth, []string{"clinic", "hospital", "doctor", "health", "ভ্যাকসিন"}},
	{domain.CategoryEducation, []string{"school", "college", "education", "বিদ্যালয়"}},
}

// Classify maps free report text to a category by ordered keyword matching.
// Texts matching no rule fall back to General.
func Classify(text string) domain.Category {
	lowered := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return domain.CategoryGeneral
}
