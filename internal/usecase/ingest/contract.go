package ingest

import (
	"context"

	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/index/keyword"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Upsert(ctx context.Context, doc *domdoc.Document) (bool, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	All(ctx context.Context) ([]domdoc.Document, error)
}

// VectorIndex receives document embeddings for semantic retrieval.
type VectorIndex interface {
	Upsert(id string, vector []float32) error
}

// KeywordIndex is rebuilt from the full corpus after every ingest.
type KeywordIndex interface {
	Rebuild(corpus []keyword.Doc)
}

// Alerter evaluates and records document alerts (best effort).
type Alerter interface {
	Process(ctx context.Context, doc *domdoc.Document) []domalert.Alert
}
