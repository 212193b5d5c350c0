package filter

import (
	"fmt"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

// Filter holds the hard search filters. Both are optional; an unset
// filter matches every document. Filters never remove candidates, they
// decimate base scores at fusion time.
type Filter struct {
	riskLevel  *risk.Level
	compliance *risk.ComplianceTag
}

// New validates and creates a Filter from raw values. Empty strings
// mean unset; unknown values are rejected with ErrInvalidFilter.
func New(riskLevel, compliance string) (Filter, error) {
	var f Filter

	if riskLevel != "" {
		l, ok := risk.ParseLevel(riskLevel)
		if !ok {
			return Filter{}, fmt.Errorf("unknown risk_level %q: %w", riskLevel, domain.ErrInvalidFilter)
		}
		f.riskLevel = &l
	}

	if compliance != "" {
		t, ok := risk.ParseComplianceTag(compliance)
		if !ok {
			return Filter{}, fmt.Errorf("unknown compliance %q: %w", compliance, domain.ErrInvalidFilter)
		}
		f.compliance = &t
	}

	return f, nil
}

// RiskLevel returns the risk-level filter (nil when unset).
func (f Filter) RiskLevel() *risk.Level { return f.riskLevel }

// Compliance returns the compliance filter (nil when unset).
func (f Filter) Compliance() *risk.ComplianceTag { return f.compliance }

// IsEmpty reports whether no filter is set.
func (f Filter) IsEmpty() bool { return f.riskLevel == nil && f.compliance == nil }
