package stats

import (
	"context"
	"errors"
	"testing"

	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

type mockDocs struct {
	allFn func(ctx context.Context) ([]domdoc.Document, error)
}

func (m *mockDocs) All(ctx context.Context) ([]domdoc.Document, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return nil, nil
}

type mockAlerts struct {
	countFn func(ctx context.Context) (int64, error)
}

func (m *mockAlerts) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockIndex struct{ n int }

func (m *mockIndex) Len() int { return m.n }

func statsDoc(id string, level risk.Level) domdoc.Document {
	return domdoc.Reconstruct(id, "t", "c", level, nil, risk.NewProfile(), nil)
}

func TestStats_Snapshot(t *testing.T) {
	docs := &mockDocs{allFn: func(_ context.Context) ([]domdoc.Document, error) {
		return []domdoc.Document{
			statsDoc("a", risk.High),
			statsDoc("b", risk.High),
			statsDoc("c", risk.Low),
		}, nil
	}}
	alerts := &mockAlerts{countFn: func(_ context.Context) (int64, error) { return 7, nil }}
	svc := New(docs, alerts, &mockIndex{n: 3})

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.Documents != 3 || got.Alerts != 7 || got.IndexedVectors != 3 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.ByLevel[risk.High] != 2 || got.ByLevel[risk.Low] != 1 {
		t.Errorf("unexpected distribution: %v", got.ByLevel)
	}
	// zero counts present for all levels
	if _, ok := got.ByLevel[risk.Critical]; !ok {
		t.Error("distribution should include zero-count levels")
	}
}

func TestStats_StorageFailure(t *testing.T) {
	docs := &mockDocs{allFn: func(_ context.Context) ([]domdoc.Document, error) {
		return nil, errors.New("connection reset")
	}}
	svc := New(docs, &mockAlerts{}, &mockIndex{})

	if _, err := svc.Stats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
