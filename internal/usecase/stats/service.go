// Package stats aggregates corpus-level figures for the stats endpoint.
package stats

import (
	"context"
	"fmt"

	"github.com/quantfold/riskdex/internal/domain/risk"
)

// Stats is the corpus snapshot returned by the stats endpoint.
type Stats struct {
	Documents      int
	ByLevel        map[risk.Level]int
	Alerts         int64
	IndexedVectors int
}

// Service computes corpus statistics.
type Service struct {
	docs    DocumentReader
	alerts  AlertCounter
	vectors IndexInfo
}

// New creates a stats service.
func New(docs DocumentReader, alerts AlertCounter, vectors IndexInfo) *Service {
	return &Service{docs: docs, alerts: alerts, vectors: vectors}
}

// Stats builds the current snapshot. The level distribution always carries
// all four levels, including zero counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	docs, err := s.docs.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load corpus: %w", err)
	}

	byLevel := make(map[risk.Level]int, 4)
	for _, lvl := range risk.Levels() {
		byLevel[lvl] = 0
	}
	for i := range docs {
		byLevel[docs[i].RiskLevel()]++
	}

	alertCount, err := s.alerts.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count alerts: %w", err)
	}

	return Stats{
		Documents:      len(docs),
		ByLevel:        byLevel,
		Alerts:         alertCount,
		IndexedVectors: s.vectors.Len(),
	}, nil
}
