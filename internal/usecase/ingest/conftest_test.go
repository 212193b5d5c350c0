package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
	"github.com/quantfold/riskdex/internal/index/keyword"
)

type mockRepo struct {
	upsertFn func(ctx context.Context, doc *domdoc.Document) (bool, error)
	getFn    func(ctx context.Context, id string) (domdoc.Document, error)
	allFn    func(ctx context.Context) ([]domdoc.Document, error)
}

func (m *mockRepo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return true, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domdoc.Document{}, domain.ErrDocumentNotFound
}

func (m *mockRepo) All(ctx context.Context) ([]domdoc.Document, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return nil, nil
}

type mockVectorIndex struct {
	upsertFn func(id string, vector []float32) error
	upserted []string
}

func (m *mockVectorIndex) Upsert(id string, vector []float32) error {
	m.upserted = append(m.upserted, id)
	if m.upsertFn != nil {
		return m.upsertFn(id, vector)
	}
	return nil
}

type mockKeywordIndex struct {
	rebuilds [][]keyword.Doc
}

func (m *mockKeywordIndex) Rebuild(corpus []keyword.Doc) {
	m.rebuilds = append(m.rebuilds, corpus)
}

type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) (domain.Classification, error)
	calls      int
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	m.calls++
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return domain.Classification{
		Embedding: []float32{0.1, 0.2},
		RiskLevel: risk.Medium,
	}, nil
}

type mockAlerter struct {
	processFn func(ctx context.Context, doc *domdoc.Document) []domalert.Alert
}

func (m *mockAlerter) Process(ctx context.Context, doc *domdoc.Document) []domalert.Alert {
	if m.processFn != nil {
		return m.processFn(ctx, doc)
	}
	return nil
}

type fixture struct {
	repo     *mockRepo
	vectors  *mockVectorIndex
	keywords *mockKeywordIndex
	model    *mockClassifier
	alerts   *mockAlerter
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &mockRepo{},
		vectors:  &mockVectorIndex{},
		keywords: &mockKeywordIndex{},
		model:    &mockClassifier{},
		alerts:   &mockAlerter{},
	}
	f.svc = New(f.repo, f.vectors, f.keywords, f.model, f.alerts, zap.NewNop())
	return f
}
