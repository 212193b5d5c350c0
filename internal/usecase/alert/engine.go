// Package alert evaluates alert rules against ingested documents and
// records the outcomes in the append-only alert log.
package alert

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

// concentrationThreshold is the per-category score above which a category
// counts toward a concentration alert (strictly greater).
const concentrationThreshold = 0.7

// criticalFrameworks are the regulatory frameworks that trigger a
// compliance alert on their own.
var criticalFrameworks = []risk.ComplianceTag{risk.BaselIII, risk.SOX}

// Engine evaluates the document alert rules.
type Engine struct {
	repo Repository
	log  *zap.Logger
}

// NewEngine creates an alert engine.
func NewEngine(repo Repository, log *zap.Logger) *Engine {
	return &Engine{repo: repo, log: log}
}

// Evaluate runs all alert rules against a document. Pure. Rules fire in
// fixed order: risk level, then compliance, then concentration.
func (e *Engine) Evaluate(doc *domdoc.Document) []domalert.Alert {
	var alerts []domalert.Alert

	if doc.RiskLevel().IsElevated() {
		alerts = append(alerts, domalert.New(
			doc.ID(), domalert.KindRiskLevel, doc.RiskLevel(),
			fmt.Sprintf("document classified as %s risk", doc.RiskLevel()),
		))
	}

	for _, fw := range criticalFrameworks {
		if doc.HasComplianceTag(fw) {
			alerts = append(alerts, domalert.New(
				doc.ID(), domalert.KindCompliance, risk.High,
				fmt.Sprintf("document subject to %s", fw),
			))
		}
	}

	if hot := doc.Profile().CategoriesAbove(concentrationThreshold); len(hot) >= 2 {
		names := make([]string, len(hot))
		for i, c := range hot {
			names[i] = string(c)
		}
		alerts = append(alerts, domalert.New(
			doc.ID(), domalert.KindRiskConcentration, risk.High,
			fmt.Sprintf("elevated scores in %d categories (%s)", len(hot), strings.Join(names, ", ")),
		))
	}

	return alerts
}

// Process evaluates and persists alerts for a document. Best effort:
// persistence failures are logged and swallowed so ingest never fails
// because of the alert log.
func (e *Engine) Process(ctx context.Context, doc *domdoc.Document) []domalert.Alert {
	alerts := e.Evaluate(doc)
	if len(alerts) == 0 {
		return nil
	}
	if err := e.repo.Append(ctx, alerts...); err != nil {
		e.log.Warn("alert log append failed",
			zap.String("document_id", doc.ID()),
			zap.Int("alerts", len(alerts)),
			zap.Error(err),
		)
	}
	return alerts
}

// RecordError appends a query-path failure to the alert log. Best effort:
// the alert is returned to the caller even when persistence fails.
func (e *Engine) RecordError(ctx context.Context, description string) domalert.Alert {
	a := domalert.New("", domalert.KindError, risk.Low, description)
	if err := e.repo.Append(ctx, a); err != nil {
		e.log.Warn("error alert append failed", zap.Error(err))
	}
	return a
}

// ListByDocument returns the persisted alerts for a document in append order.
func (e *Engine) ListByDocument(ctx context.Context, documentID string) ([]domalert.Alert, error) {
	alerts, err := e.repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list alerts %s: %w", documentID, err)
	}
	return alerts, nil
}
