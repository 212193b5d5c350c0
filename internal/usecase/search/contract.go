package search

import (
	"context"

	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/index"
)

// DocumentReader resolves candidate IDs to full documents.
type DocumentReader interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

// VectorSearcher retrieves candidates by embedding distance (ascending).
type VectorSearcher interface {
	Search(vector []float32, k int) []index.Candidate
}

// KeywordSearcher retrieves candidates by BM25 score (descending).
type KeywordSearcher interface {
	Search(tokens []string, k int) []index.Candidate
}

// Alerter reads per-document alert history and records query-path failures.
type Alerter interface {
	ListByDocument(ctx context.Context, documentID string) ([]domalert.Alert, error)
	RecordError(ctx context.Context, description string) domalert.Alert
}
