package search

import (
	"fmt"
	"sort"
	"strings"

	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

// keyRiskThreshold marks a profile category as a key risk in the summary.
const keyRiskThreshold = 0.6

// emptySummary is returned for searches with no results.
const emptySummary = "No relevant risk documents found."

// buildSummary renders the human-readable risk analysis for a result set.
// Deterministic for a given document order.
func buildSummary(docs []domdoc.Document) string {
	if len(docs) == 0 {
		return emptySummary
	}

	levelCounts := map[risk.Level]int{}
	tagCounts := map[risk.ComplianceTag]int{}
	elevated := 0
	for i := range docs {
		levelCounts[docs[i].RiskLevel()]++
		if docs[i].RiskLevel().IsElevated() {
			elevated++
		}
		for _, t := range docs[i].ComplianceTags() {
			tagCounts[t]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Risk Analysis Summary (%d documents):\n\n", len(docs))

	if elevated > 0 {
		fmt.Fprintf(&b, "HIGH RISK ALERT: %d documents contain high/critical risks\n\n", elevated)
	}

	b.WriteString("Risk Distribution:\n")
	for _, lvl := range risk.Levels() {
		if n := levelCounts[lvl]; n > 0 {
			fmt.Fprintf(&b, "  - %s: %d documents\n", lvl, n)
		}
	}

	if len(tagCounts) > 0 {
		b.WriteString("\nCompliance Coverage:\n")
		tags := make([]risk.ComplianceTag, 0, len(tagCounts))
		for t := range tagCounts {
			tags = append(tags, t)
		}
		sort.Slice(tags, func(i, j int) bool {
			if tagCounts[tags[i]] != tagCounts[tags[j]] {
				return tagCounts[tags[i]] > tagCounts[tags[j]]
			}
			return tags[i] < tags[j]
		})
		for _, t := range tags {
			fmt.Fprintf(&b, "  - %s: %d documents\n", t, tagCounts[t])
		}
	}

	b.WriteString("\nTop Risk Documents:\n")
	top := docs
	if len(top) > 3 {
		top = top[:3]
	}
	for i := range top {
		fmt.Fprintf(&b, "%d. %s (Risk: %s)\n", i+1, top[i].Title(), top[i].RiskLevel())
		if key := top[i].Profile().CategoriesAbove(keyRiskThreshold); len(key) > 0 {
			names := make([]string, len(key))
			for j, c := range key {
				names[j] = string(c)
			}
			fmt.Fprintf(&b, "   Key Risks: %s\n", strings.Join(names, ", "))
		}
	}

	return b.String()
}
