package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

func TestProcess_Success(t *testing.T) {
	f := newFixture(t)

	var persisted *domdoc.Document
	f.repo.upsertFn = func(_ context.Context, doc *domdoc.Document) (bool, error) {
		d := *doc
		persisted = &d
		return true, nil
	}
	f.model.classifyFn = func(_ context.Context, _ string) (domain.Classification, error) {
		return domain.Classification{
			Embedding:      []float32{0.5, 0.5},
			RiskLevel:      risk.High,
			ComplianceTags: []risk.ComplianceTag{risk.BaselIII},
		}, nil
	}
	f.alerts.processFn = func(_ context.Context, doc *domdoc.Document) []domalert.Alert {
		return []domalert.Alert{
			domalert.New(doc.ID(), domalert.KindRiskLevel, risk.High, "document classified as HIGH risk"),
		}
	}

	res, err := f.svc.Process(context.Background(), "doc-1", "Credit memo", "credit default exposure")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Created {
		t.Error("expected created=true")
	}
	if res.Document.RiskLevel() != risk.High {
		t.Errorf("classification not applied: %s", res.Document.RiskLevel())
	}
	if len(res.Alerts) != 1 {
		t.Errorf("expected 1 alert, got %d", len(res.Alerts))
	}
	if persisted == nil || persisted.ID() != "doc-1" {
		t.Fatal("document was not persisted")
	}
	// risk profile derived from content, not from the model
	if persisted.Profile().Score(risk.Credit) == 0 {
		t.Error("expected non-zero credit score for credit content")
	}
	if len(f.vectors.upserted) != 1 || f.vectors.upserted[0] != "doc-1" {
		t.Errorf("vector index not updated: %v", f.vectors.upserted)
	}
	if len(f.keywords.rebuilds) != 1 {
		t.Errorf("keyword index not rebuilt: %d rebuilds", len(f.keywords.rebuilds))
	}
}

func TestProcess_InvalidInputSkipsModel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Process(context.Background(), "bad id!", "title", "content")
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if f.model.calls != 0 {
		t.Error("classifier should not be called for invalid input")
	}

	_, err = f.svc.Process(context.Background(), "doc-1", "", "content")
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for empty title, got %v", err)
	}
}

func TestProcess_ClassifierFailure(t *testing.T) {
	f := newFixture(t)
	f.model.classifyFn = func(_ context.Context, _ string) (domain.Classification, error) {
		return domain.Classification{}, domain.ErrModelUnavailable
	}

	_, err := f.svc.Process(context.Background(), "doc-1", "title", "content")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if len(f.vectors.upserted) != 0 {
		t.Error("nothing should be indexed when classification fails")
	}
}

func TestProcess_MetadataFailureAfterVectorWrite(t *testing.T) {
	f := newFixture(t)
	f.repo.upsertFn = func(_ context.Context, _ *domdoc.Document) (bool, error) {
		return false, errors.New("connection reset")
	}

	_, err := f.svc.Process(context.Background(), "doc-1", "title", "content")
	if !errors.Is(err, domain.ErrStorageInconsistent) {
		t.Fatalf("expected ErrStorageInconsistent, got %v", err)
	}
	if len(f.vectors.upserted) != 1 {
		t.Error("vector write should have happened before the failure")
	}
}

func TestProcess_AlertFailureDoesNotFailIngest(t *testing.T) {
	f := newFixture(t)
	// Alerter contract is best effort: it returns the evaluated alerts
	// even when its own persistence failed.
	f.alerts.processFn = func(_ context.Context, doc *domdoc.Document) []domalert.Alert {
		return []domalert.Alert{
			domalert.New(doc.ID(), domalert.KindRiskLevel, risk.High, "document classified as HIGH risk"),
		}
	}

	res, err := f.svc.Process(context.Background(), "doc-1", "title", "content")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Alerts) != 1 {
		t.Errorf("expected alerts in result, got %d", len(res.Alerts))
	}
}

func TestReload_RebuildsBothIndexes(t *testing.T) {
	f := newFixture(t)
	f.repo.allFn = func(_ context.Context) ([]domdoc.Document, error) {
		return []domdoc.Document{
			domdoc.Reconstruct("doc-a", "t", "credit", risk.Low, nil, risk.NewProfile(), []float32{1}),
			domdoc.Reconstruct("doc-b", "t", "market", risk.Low, nil, risk.NewProfile(), []float32{2}),
		}, nil
	}

	n, err := f.svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 documents, got %d", n)
	}
	if len(f.vectors.upserted) != 2 {
		t.Errorf("expected 2 vector upserts, got %d", len(f.vectors.upserted))
	}
	if len(f.keywords.rebuilds) != 1 || len(f.keywords.rebuilds[0]) != 2 {
		t.Errorf("keyword index not rebuilt from full corpus")
	}
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), "absent")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}
