package stats

import (
	"context"

	domdoc "github.com/quantfold/riskdex/internal/domain/document"
)

// DocumentReader loads the corpus for distribution counts.
type DocumentReader interface {
	All(ctx context.Context) ([]domdoc.Document, error)
}

// AlertCounter reports the total number of recorded alerts.
type AlertCounter interface {
	Count(ctx context.Context) (int64, error)
}

// IndexInfo reports in-process index sizes.
type IndexInfo interface {
	Len() int
}
