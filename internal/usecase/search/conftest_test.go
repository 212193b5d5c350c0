package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
	"github.com/quantfold/riskdex/internal/index"
)

type mockDocs struct {
	getFn func(ctx context.Context, id string) (domdoc.Document, error)
}

func (m *mockDocs) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domdoc.Document{}, domain.ErrDocumentNotFound
}

type mockVectors struct {
	searchFn func(vector []float32, k int) []index.Candidate
}

func (m *mockVectors) Search(vector []float32, k int) []index.Candidate {
	if m.searchFn != nil {
		return m.searchFn(vector, k)
	}
	return nil
}

type mockKeywords struct {
	searchFn func(tokens []string, k int) []index.Candidate
}

func (m *mockKeywords) Search(tokens []string, k int) []index.Candidate {
	if m.searchFn != nil {
		return m.searchFn(tokens, k)
	}
	return nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{0.1}, nil
}

type mockAlerter struct {
	listFn      func(ctx context.Context, documentID string) ([]domalert.Alert, error)
	recorded    []string
	listedDocs  []string
	recordErrFn func(ctx context.Context, description string) domalert.Alert
}

func (m *mockAlerter) ListByDocument(ctx context.Context, documentID string) ([]domalert.Alert, error) {
	m.listedDocs = append(m.listedDocs, documentID)
	if m.listFn != nil {
		return m.listFn(ctx, documentID)
	}
	return nil, nil
}

func (m *mockAlerter) RecordError(ctx context.Context, description string) domalert.Alert {
	m.recorded = append(m.recorded, description)
	if m.recordErrFn != nil {
		return m.recordErrFn(ctx, description)
	}
	return domalert.New("", domalert.KindError, risk.Low, description)
}

type fixture struct {
	docs     *mockDocs
	vectors  *mockVectors
	keywords *mockKeywords
	embed    *mockEmbedder
	alerts   *mockAlerter
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		docs:     &mockDocs{},
		vectors:  &mockVectors{},
		keywords: &mockKeywords{},
		embed:    &mockEmbedder{},
		alerts:   &mockAlerter{},
	}
	f.svc = New(f.docs, f.vectors, f.keywords, f.embed, f.alerts, zap.NewNop())
	return f
}

// corpus installs a fixed document set on the mock reader.
func (f *fixture) corpus(docs map[string]domdoc.Document) {
	f.docs.getFn = func(_ context.Context, id string) (domdoc.Document, error) {
		doc, ok := docs[id]
		if !ok {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return doc, nil
	}
}
