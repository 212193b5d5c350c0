package riskdex

import (
	"time"

	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/search/result"
)

// Document is a classified banking document.
type Document struct {
	ID             string
	Title          string
	Content        string
	RiskLevel      string
	ComplianceTags []string
	RiskProfile    map[string]float64
}

// Alert is a recorded risk alert.
type Alert struct {
	ID          string
	DocumentID  string
	Kind        string
	Severity    string
	Description string
	CreatedAt   time.Time
}

// IngestResult is the outcome of ingesting one document.
type IngestResult struct {
	Document Document
	Created  bool
	Alerts   []Alert
}

// SearchItem is one scored search result.
type SearchItem struct {
	Document     Document
	Score        float64
	RiskRelevant bool
}

// SearchResult is the full outcome of a search query.
type SearchResult struct {
	Items   []SearchItem
	Summary string
	Alerts  []Alert
}

// SearchOptions configures a search query. Zero values mean defaults.
type SearchOptions struct {
	TopK       int
	RiskLevel  string // filter: LOW, MEDIUM, HIGH, CRITICAL
	Compliance string // filter: BASEL_III, DODD_FRANK, SOX, GDPR, AML_KYC, MIFID_II
}

// Stats is a corpus snapshot.
type Stats struct {
	Documents      int
	ByRiskLevel    map[string]int
	Alerts         int64
	IndexedVectors int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component to "ok"/"error"
}

func fromDocument(d *domdoc.Document) Document {
	tags := d.ComplianceTags()
	out := Document{
		ID:          d.ID(),
		Title:       d.Title(),
		Content:     d.Content(),
		RiskLevel:   string(d.RiskLevel()),
		RiskProfile: make(map[string]float64, 5),
	}
	if len(tags) > 0 {
		out.ComplianceTags = make([]string, len(tags))
		for i, t := range tags {
			out.ComplianceTags[i] = string(t)
		}
	}
	for c, v := range d.Profile().Scores() {
		out.RiskProfile[string(c)] = v
	}
	return out
}

func fromAlerts(alerts []domalert.Alert) []Alert {
	if len(alerts) == 0 {
		return nil
	}
	out := make([]Alert, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		out[i] = Alert{
			ID:          a.ID(),
			DocumentID:  a.DocumentID(),
			Kind:        string(a.Kind()),
			Severity:    string(a.Severity()),
			Description: a.Description(),
			CreatedAt:   a.CreatedAt(),
		}
	}
	return out
}

func fromResults(results []result.Result) []SearchItem {
	items := make([]SearchItem, len(results))
	for i := range results {
		r := &results[i]
		doc := r.Document()
		items[i] = SearchItem{
			Document:     fromDocument(&doc),
			Score:        r.Score(),
			RiskRelevant: r.RiskRelevant(),
		}
	}
	return items
}
