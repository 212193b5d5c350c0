// Package search executes risk-aware hybrid retrieval: semantic and
// keyword candidates fetched in parallel, fused with risk boosts, and
// returned with a summary and the top documents' alert history.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/search/query"
	"github.com/quantfold/riskdex/internal/domain/search/request"
	"github.com/quantfold/riskdex/internal/domain/search/result"
	"github.com/quantfold/riskdex/internal/index"
	"github.com/quantfold/riskdex/internal/index/keyword"
)

// alertDocs caps how many top results contribute alert history to the response.
const alertDocs = 3

// Response is the full search outcome. The query path never returns an
// error: unrecoverable failures degrade to an empty result set with a
// single ERROR alert.
type Response struct {
	Results []result.Result
	Summary string
	Alerts  []domalert.Alert
}

// Service handles risk-aware document search.
type Service struct {
	docs     DocumentReader
	vectors  VectorSearcher
	keywords KeywordSearcher
	embed    domain.Embedder
	alerts   Alerter
	log      *zap.Logger
}

// New creates a search service.
func New(
	docs DocumentReader,
	vectors VectorSearcher,
	keywords KeywordSearcher,
	embed domain.Embedder,
	alerts Alerter,
	log *zap.Logger,
) *Service {
	return &Service{
		docs:     docs,
		vectors:  vectors,
		keywords: keywords,
		embed:    embed,
		alerts:   alerts,
		log:      log,
	}
}

// Search runs the hybrid query pipeline. Both retrieval branches fetch
// 2x topK candidates so fusion has headroom before truncation.
func (s *Service) Search(ctx context.Context, req *request.Request) Response {
	qc := query.Analyze(req.Query())
	fetch := req.TopK() * 2

	var semantic, keywords []index.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := s.embed.Embed(gctx, req.Query())
		if err != nil {
			return fmt.Errorf("vectorize query: %w", err)
		}
		semantic = s.vectors.Search(vec, fetch)
		return nil
	})
	g.Go(func() error {
		keywords = s.keywords.Search(keyword.Tokenize(req.Query()), fetch)
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.degraded(ctx, err)
	}

	docs, err := s.resolve(ctx, semantic, keywords)
	if err != nil {
		return s.degraded(ctx, err)
	}

	results := fuse(semantic, keywords, docs, qc, req.Filters(), req.TopK())

	resultDocs := make([]domdoc.Document, len(results))
	for i := range results {
		resultDocs[i] = results[i].Document()
	}

	return Response{
		Results: results,
		Summary: buildSummary(resultDocs),
		Alerts:  s.collectAlerts(ctx, resultDocs),
	}
}

// resolve loads every candidate document once. Candidates whose metadata
// has disappeared are dropped; storage errors abort the query.
func (s *Service) resolve(
	ctx context.Context, semantic, keywords []index.Candidate,
) (map[string]domdoc.Document, error) {
	docs := make(map[string]domdoc.Document, len(semantic)+len(keywords))
	for _, list := range [][]index.Candidate{semantic, keywords} {
		for _, c := range list {
			if _, ok := docs[c.ID]; ok {
				continue
			}
			doc, err := s.docs.Get(ctx, c.ID)
			if err != nil {
				if errors.Is(err, domain.ErrDocumentNotFound) {
					s.log.Warn("candidate without metadata skipped", zap.String("document_id", c.ID))
					continue
				}
				return nil, fmt.Errorf("resolve candidate %s: %w", c.ID, err)
			}
			docs[c.ID] = doc
		}
	}
	return docs, nil
}

// collectAlerts gathers alert history for the top results. Best effort:
// a failing read drops that document's alerts, never the search.
func (s *Service) collectAlerts(ctx context.Context, docs []domdoc.Document) []domalert.Alert {
	top := docs
	if len(top) > alertDocs {
		top = top[:alertDocs]
	}
	var alerts []domalert.Alert
	for i := range top {
		docAlerts, err := s.alerts.ListByDocument(ctx, top[i].ID())
		if err != nil {
			s.log.Warn("alert history read failed",
				zap.String("document_id", top[i].ID()), zap.Error(err))
			continue
		}
		alerts = append(alerts, docAlerts...)
	}
	return alerts
}

// degraded produces the failure response: empty results, the empty-set
// summary, and one ERROR alert describing the failure.
func (s *Service) degraded(ctx context.Context, err error) Response {
	s.log.Error("search degraded", zap.Error(err))
	a := s.alerts.RecordError(ctx, fmt.Sprintf("search degraded: %v", err))
	return Response{
		Results: []result.Result{},
		Summary: emptySummary,
		Alerts:  []domalert.Alert{a},
	}
}
