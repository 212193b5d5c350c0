package query

import (
	"strings"

	"github.com/quantfold/riskdex/internal/domain/risk"
)

// Urgency is the query urgency signal.
type Urgency string

// Urgency values.
const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// focusKeywords maps the four focus categories to their trigger
// keywords. Compliance is intentionally absent: it has no focus
// keyword list.
var focusKeywords = []struct {
	category risk.Category
	keywords []string
}{
	{risk.Credit, []string{"credit", "default", "counterparty"}},
	{risk.Market, []string{"market", "trading", "volatility"}},
	{risk.Operational, []string{"operational", "fraud", "process"}},
	{risk.Liquidity, []string{"liquidity", "funding", "cash"}},
}

var urgencyKeywords = []string{"urgent", "critical", "immediate", "asap"}

// Context holds the risk signals extracted from a query string.
// Derived and ephemeral; never persisted.
type Context struct {
	riskFocus []risk.Category
	urgency   Urgency
}

// Analyze extracts risk focus and urgency from a query. Pure and
// deterministic: case-insensitive substring matching, focus categories
// in fixed category order.
func Analyze(q string) Context {
	lower := strings.ToLower(q)

	var focus []risk.Category
	for _, fk := range focusKeywords {
		for _, kw := range fk.keywords {
			if strings.Contains(lower, kw) {
				focus = append(focus, fk.category)
				break
			}
		}
	}

	urgency := UrgencyNormal
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			urgency = UrgencyHigh
			break
		}
	}

	return Context{riskFocus: focus, urgency: urgency}
}

// RiskFocus returns the focused categories in fixed category order.
func (c Context) RiskFocus() []risk.Category {
	out := make([]risk.Category, len(c.riskFocus))
	copy(out, c.riskFocus)
	return out
}

// HasFocus reports whether the query focuses on the given category.
func (c Context) HasFocus(cat risk.Category) bool {
	for _, f := range c.riskFocus {
		if f == cat {
			return true
		}
	}
	return false
}

// Urgency returns the urgency signal.
func (c Context) Urgency() Urgency { return c.urgency }
