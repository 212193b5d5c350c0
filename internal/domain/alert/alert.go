package alert

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantfold/riskdex/internal/domain/risk"
)

// Kind classifies an alert.
type Kind string

// Alert kinds.
const (
	// KindRiskLevel fires when a document carries an elevated risk level.
	KindRiskLevel Kind = "RISK_LEVEL"
	// KindCompliance fires per critical compliance framework a document holds.
	KindCompliance Kind = "COMPLIANCE"
	// KindRiskConcentration fires when multiple categories score high at once.
	KindRiskConcentration Kind = "RISK_CONCENTRATION"
	// KindError carries a query-path failure back to the caller.
	KindError Kind = "ERROR"
)

// Alert is an immutable record appended to the alert log. Alerts are
// never deduplicated or updated in place.
type Alert struct {
	id          string
	documentID  string
	kind        Kind
	severity    risk.Level
	description string
	createdAt   time.Time
}

// New creates an alert stamped with a fresh ID and the current time.
func New(documentID string, kind Kind, severity risk.Level, description string) Alert {
	return Alert{
		id:          uuid.NewString(),
		documentID:  documentID,
		kind:        kind,
		severity:    severity,
		description: description,
		createdAt:   time.Now().UTC(),
	}
}

// Reconstruct creates an Alert from stored fields (storage hydration).
func Reconstruct(
	id, documentID string, kind Kind, severity risk.Level,
	description string, createdAt time.Time,
) Alert {
	return Alert{
		id: id, documentID: documentID, kind: kind,
		severity: severity, description: description, createdAt: createdAt,
	}
}

// ID returns the alert identifier.
func (a *Alert) ID() string { return a.id }

// DocumentID returns the document the alert refers to (empty for query-path errors).
func (a *Alert) DocumentID() string { return a.documentID }

// Kind returns the alert kind.
func (a *Alert) Kind() Kind { return a.kind }

// Severity returns the alert severity.
func (a *Alert) Severity() risk.Level { return a.severity }

// Description returns the human-readable description.
func (a *Alert) Description() string { return a.description }

// CreatedAt returns the alert creation time.
func (a *Alert) CreatedAt() time.Time { return a.createdAt }
