package triage

import "strings"

// Scorer rates the tone of report text. Lower (more negative) scores mean a
// more urgent report. Implementations must be stateless and safe for
// concurrent use; the score is computed once at creation and stored.
type Scorer interface {
	Score(text string) int
}

// LexiconScorer is the default Scorer: an AFINN-style word lexicon summed over
// the tokens of the text. It is a fixed heuristic, not a model.
type LexiconScorer struct{}

// NewLexiconScorer returns the default lexicon-backed scorer.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// lexicon holds signed word weights in the AFINN -5..+5 range, trimmed to
// vocabulary that shows up in civic reports.
var lexicon = map[string]int{
	"abandoned":   -2,
	"accident":    -2,
	"awful":       -3,
	"bad":         -3,
	"blocked":     -1,
	"broken":      -1,
	"catastrophe": -3,
	"collapse":    -2,
	"collapsed":   -2,
	"crisis":      -3,
	"damage":      -3,
	"damaged":     -3,
	"danger":      -2,
	"dangerous":   -2,
	"dead":        -3,
	"death":       -2,
	"dirty":       -2,
	"disaster":    -2,
	"disease":     -1,
	"dying":       -3,
	"emergency":   -2,
	"fail":        -2,
	"failed":      -2,
	"fear":        -2,
	"filthy":      -2,
	"fire":        -2,
	"flooded":     -2,
	"garbage":     -1,
	"hazard":      -3,
	"hazardous":   -3,
	"horrible":    -3,
	"hurt":        -2,
	"injured":     -2,
	"injury":      -2,
	"leak":        -1,
	"leaking":     -1,
	"neglect":     -2,
	"neglected":   -2,
	"overflow":    -1,
	"overflowing": -1,
	"poison":      -2,
	"risk":        -2,
	"rotten":      -2,
	"severe":      -2,
	"sick":        -2,
	"smell":       -1,
	"stink":       -2,
	"stuck":       -2,
	"terrible":    -3,
	"toxic":       -3,
	"trapped":     -2,
	"unsafe":      -2,
	"urgent":      -2,
	"worse":       -3,
	"worst":       -3,

	"better":    2,
	"clean":     2,
	"fine":      2,
	"fixed":     1,
	"good":      3,
	"great":     3,
	"happy":     3,
	"helpful":   2,
	"improved":  2,
	"nice":      3,
	"resolved":  2,
	"safe":      1,
	"thank":     2,
	"thanks":    2,
	"wonderful": 4,
}

// Score sums lexicon weights over the lower-cased tokens of text. Unknown
// tokens contribute nothing; an empty text scores zero.
func (s *LexiconScorer) Score(text string) int {
	total := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'()[]")
		if weight, ok := lexicon[token]; ok {
			total += weight
		}
	}
	return total
}
