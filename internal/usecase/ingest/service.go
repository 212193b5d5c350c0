// Package ingest handles document intake: classification, risk scoring,
// persistence, and index maintenance.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
	"github.com/quantfold/riskdex/internal/index/keyword"
)

// Result is the outcome of a successful ingest.
type Result struct {
	Document domdoc.Document
	Created  bool
	Alerts   []domalert.Alert
}

// Service handles document ingestion.
type Service struct {
	repo     Repository
	vectors  VectorIndex
	keywords KeywordIndex
	model    domain.Classifier
	alerts   Alerter
	log      *zap.Logger

	// mu serializes the vector write, the metadata write, and the keyword
	// rebuild so concurrent ingests cannot interleave between them.
	mu sync.Mutex
}

// New creates an ingest service.
func New(
	repo Repository,
	vectors VectorIndex,
	keywords KeywordIndex,
	model domain.Classifier,
	alerts Alerter,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		vectors:  vectors,
		keywords: keywords,
		model:    model,
		alerts:   alerts,
		log:      log,
	}
}

// Process ingests a document: validates it, classifies it, scores the risk
// profile, persists it, updates both indexes, and evaluates alert rules.
// Re-ingesting an existing ID overwrites it everywhere.
func (s *Service) Process(ctx context.Context, id, title, content string) (Result, error) {
	// Validate the raw input up front so an invalid document never costs a
	// model call. The placeholder fields are replaced after classification.
	if _, err := domdoc.New(id, title, content, risk.Low, nil, risk.NewProfile(), nil); err != nil {
		return Result{}, err
	}

	cls, err := s.model.Classify(ctx, content)
	if err != nil {
		return Result{}, fmt.Errorf("classify document %s: %w", id, err)
	}

	profile := risk.Score(content)

	doc, err := domdoc.New(id, title, content, cls.RiskLevel, cls.ComplianceTags, profile, cls.Embedding)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vectors.Upsert(doc.ID(), doc.Vector()); err != nil {
		return Result{}, fmt.Errorf("index vector %s: %w", doc.ID(), err)
	}

	// The vector is already live at this point; a metadata failure leaves
	// the stores diverged until the next successful ingest of this ID.
	created, err := s.repo.Upsert(ctx, &doc)
	if err != nil {
		return Result{}, fmt.Errorf("persist document %s: %w: %w", doc.ID(), domain.ErrStorageInconsistent, err)
	}

	if err := s.rebuildKeywords(ctx); err != nil {
		return Result{}, fmt.Errorf("rebuild keyword index: %w: %w", domain.ErrStorageInconsistent, err)
	}

	alerts := s.alerts.Process(ctx, &doc)

	s.log.Info("document ingested",
		zap.String("document_id", doc.ID()),
		zap.String("risk_level", string(doc.RiskLevel())),
		zap.Bool("created", created),
		zap.Int("alerts", len(alerts)),
	)

	return Result{Document: doc, Created: created, Alerts: alerts}, nil
}

// Get returns a stored document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Reload rebuilds both in-process indexes from storage. Called at boot so
// a restarted node serves searches over the persisted corpus.
func (s *Service) Reload(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}
	for i := range docs {
		if err := s.vectors.Upsert(docs[i].ID(), docs[i].Vector()); err != nil {
			return 0, fmt.Errorf("index vector %s: %w", docs[i].ID(), err)
		}
	}
	s.keywords.Rebuild(corpusOf(docs))
	return len(docs), nil
}

func (s *Service) rebuildKeywords(ctx context.Context) error {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	s.keywords.Rebuild(corpusOf(docs))
	return nil
}

func corpusOf(docs []domdoc.Document) []keyword.Doc {
	corpus := make([]keyword.Doc, len(docs))
	for i := range docs {
		corpus[i] = keyword.Doc{ID: docs[i].ID(), Content: docs[i].Content()}
	}
	return corpus
}
