package risk

import "strings"

// Indicator term lists for the lexically scored categories. A category
// score is the coverage ratio: distinct indicators present / total
// indicators. Only credit and market carry indicator lists today; the
// operational, liquidity, and compliance categories have no lexical
// signal yet and stay at 0 (known gap, kept deliberately).
var (
	creditIndicators = []string{"default", "pd", "lgd", "credit exposure", "counterparty"}
	marketIndicators = []string{"var", "volatility", "trading loss", "market exposure"}
)

// severityMarkers scale every category score when present anywhere in
// the content. The multiplier is global, not per category.
var severityMarkers = []string{"critical", "severe"}

const severityMultiplier = 1.5

// Score derives a risk profile from raw document content. Pure and
// deterministic: lowercased substring matching, no side effects, always
// a complete five-key profile with scores in [0, 1].
func Score(content string) Profile {
	lower := strings.ToLower(content)

	p := NewProfile()
	p.scores[Credit] = coverage(lower, creditIndicators)
	p.scores[Market] = coverage(lower, marketIndicators)

	for _, marker := range severityMarkers {
		if strings.Contains(lower, marker) {
			for c, v := range p.scores {
				p.scores[c] = clamp01(v * severityMultiplier)
			}
			break
		}
	}

	return p
}

// coverage returns the fraction of indicator terms present in the text.
func coverage(lower string, indicators []string) float64 {
	hits := 0
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			hits++
		}
	}
	return float64(hits) / float64(len(indicators))
}
