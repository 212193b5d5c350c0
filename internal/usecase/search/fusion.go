package search

import (
	"sort"

	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/search/filter"
	"github.com/quantfold/riskdex/internal/domain/search/query"
	"github.com/quantfold/riskdex/internal/domain/search/result"
	"github.com/quantfold/riskdex/internal/index"
)

// Fusion weights and boosts. Reciprocal-rank base scoring with additive
// risk boosts on top; hard filters decimate the base score only.
const (
	semanticWeight = 0.6
	keywordWeight  = 0.4
	focusBoost     = 0.2
	urgencyBoost   = 0.3
	filterPenalty  = 0.1
	focusThreshold = 0.5
)

type fused struct {
	doc   domdoc.Document
	base  float64
	boost float64
}

// fuse merges the two candidate lists with risk-aware ranking.
// base(d) = 0.6/(semRank+1) + 0.4/(kwRank+1) over the ranks where d
// appears. Boosts: +0.2 per query focus category the document scores
// above 0.5 in, +0.3 for urgent queries on elevated documents. Each
// failed hard filter multiplies the base by 0.1; boosts are exempt.
// Final score = base + boost. Candidates missing from docs are skipped.
//
// Ordering is deterministic: semantic candidates enter first in rank
// order, keyword-only candidates after in rank order, and the final
// stable sort preserves that entry order for equal scores.
func fuse(
	semantic, keyword []index.Candidate,
	docs map[string]domdoc.Document,
	qc query.Context,
	f filter.Filter,
	topK int,
) []result.Result {
	merged := make(map[string]*fused, len(semantic)+len(keyword))
	order := make([]string, 0, len(semantic)+len(keyword))

	for rank, c := range semantic {
		doc, ok := docs[c.ID]
		if !ok {
			continue
		}
		merged[c.ID] = &fused{doc: doc, base: semanticWeight / float64(rank+1)}
		order = append(order, c.ID)
	}

	for rank, c := range keyword {
		s := keywordWeight / float64(rank+1)
		if existing, ok := merged[c.ID]; ok {
			existing.base += s
			continue
		}
		doc, ok := docs[c.ID]
		if !ok {
			continue
		}
		merged[c.ID] = &fused{doc: doc, base: s}
		order = append(order, c.ID)
	}

	for _, id := range order {
		entry := merged[id]

		for _, cat := range qc.RiskFocus() {
			if entry.doc.Profile().Score(cat) > focusThreshold {
				entry.boost += focusBoost
			}
		}
		if qc.Urgency() == query.UrgencyHigh && entry.doc.RiskLevel().IsElevated() {
			entry.boost += urgencyBoost
		}

		if lvl := f.RiskLevel(); lvl != nil && entry.doc.RiskLevel() != *lvl {
			entry.base *= filterPenalty
		}
		if tag := f.Compliance(); tag != nil && !entry.doc.HasComplianceTag(*tag) {
			entry.base *= filterPenalty
		}
	}

	results := make([]result.Result, 0, len(order))
	for _, id := range order {
		entry := merged[id]
		results = append(results, result.New(entry.doc, entry.base+entry.boost, entry.boost > 0))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
