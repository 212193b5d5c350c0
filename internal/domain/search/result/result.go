package result

import "github.com/quantfold/riskdex/internal/domain/document"

// Result is a single ranked search hit. riskRelevant is true iff the
// risk-context boost contributed a nonzero amount to the score.
type Result struct {
	doc          document.Document
	score        float64
	riskRelevant bool
}

// New creates a search result.
func New(doc document.Document, score float64, riskRelevant bool) Result {
	return Result{doc: doc, score: score, riskRelevant: riskRelevant}
}

// Document returns the matched document.
func (r *Result) Document() document.Document { return r.doc }

// Score returns the fused relevance score.
func (r *Result) Score() float64 { return r.score }

// RiskRelevant reports whether risk boosting contributed to the score.
func (r *Result) RiskRelevant() bool { return r.riskRelevant }
