// Package riskdex provides an embedded Go client for the riskdex
// risk-aware document retrieval engine. It wires storage, indexes,
// and the classifier in process, without an HTTP server:
//
//	client, _ := riskdex.New(riskdex.WithMemory(), riskdex.WithMockClassifier())
//	defer client.Close()
//	client.Ingest(ctx, "doc001", "Credit Risk Policy", content)
//	res, _ := client.Search(ctx, "Basel III capital requirements", nil)
package riskdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	mockclassifier "github.com/quantfold/riskdex/internal/classifier/mock"
	"github.com/quantfold/riskdex/internal/db"
	dbMemory "github.com/quantfold/riskdex/internal/db/memory"
	dbRedis "github.com/quantfold/riskdex/internal/db/redis"
	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/search/filter"
	"github.com/quantfold/riskdex/internal/domain/search/request"
	"github.com/quantfold/riskdex/internal/index/keyword"
	"github.com/quantfold/riskdex/internal/index/vector"
	alertrepo "github.com/quantfold/riskdex/internal/repository/alert"
	documentrepo "github.com/quantfold/riskdex/internal/repository/document"
	openaiTransport "github.com/quantfold/riskdex/internal/transport/openai"
	alertuc "github.com/quantfold/riskdex/internal/usecase/alert"
	healthuc "github.com/quantfold/riskdex/internal/usecase/health"
	ingestuc "github.com/quantfold/riskdex/internal/usecase/ingest"
	searchuc "github.com/quantfold/riskdex/internal/usecase/search"
	statsuc "github.com/quantfold/riskdex/internal/usecase/stats"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the riskdex embedded client entry point.
type Client struct {
	store     db.Store
	ingestSvc *ingestuc.Service
	searchSvc *searchuc.Service
	alertSvc  *alertuc.Engine
	statsSvc  *statsuc.Service
	healthSvc *healthuc.Service
}

// New creates a riskdex Client, connects to the store, and rebuilds
// the in-process indexes from persisted documents.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:        "memory",
		provider:      "mock",
		embedModel:    "text-embedding-3-small",
		classifyModel: "gpt-4o-mini",
		dimensions:    mockclassifier.DefaultDim,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("riskdex: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	if _, err := c.ingestSvc.Reload(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("riskdex: rebuild indexes: %w", err)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis":
		if len(cfg.addrs) == 0 {
			return nil, errors.New("riskdex: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("riskdex: create redis store: %w", err)
		}
		return s, nil
	case "memory":
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("riskdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	var model domain.Classifier
	var embedder domain.Embedder
	var checker healthuc.ClassifierChecker
	switch cfg.provider {
	case "openai":
		m := openaiTransport.NewClassifier(&openaiTransport.Config{
			APIKey:        cfg.apiKey,
			BaseURL:       cfg.baseURL,
			EmbedModel:    cfg.embedModel,
			ClassifyModel: cfg.classifyModel,
			Dimensions:    cfg.dimensions,
			Provider:      cfg.provider,
			Logger:        cfg.logger,
		})
		model, embedder, checker = m, m, m
	case "mock":
		m := mockclassifier.New(cfg.dimensions)
		model, embedder, checker = m, m, m
	default:
		return nil, fmt.Errorf("riskdex: unknown classifier provider %q", cfg.provider)
	}

	docRepo := documentrepo.New(store)
	alertRepo := alertrepo.New(store)
	vectors := vector.New(cfg.dimensions)
	keywords := keyword.New()

	alertEngine := alertuc.NewEngine(alertRepo, cfg.logger)

	return &Client{
		store:     store,
		ingestSvc: ingestuc.New(docRepo, vectors, keywords, model, alertEngine, cfg.logger),
		searchSvc: searchuc.New(docRepo, vectors, keywords, embedder, alertEngine, cfg.logger),
		alertSvc:  alertEngine,
		statsSvc:  statsuc.New(docRepo, alertRepo, vectors),
		healthSvc: healthuc.New(store, checker),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest classifies and stores one document, returning the classified
// document and any alerts its classification raised. Re-ingesting an
// existing ID overwrites it.
func (c *Client) Ingest(ctx context.Context, id, title, content string) (IngestResult, error) {
	res, err := c.ingestSvc.Process(ctx, id, title, content)
	if err != nil {
		return IngestResult{}, fmt.Errorf("ingest: %w", err)
	}
	return IngestResult{
		Document: fromDocument(&res.Document),
		Created:  res.Created,
		Alerts:   fromAlerts(res.Alerts),
	}, nil
}

// Document fetches one document by ID.
func (c *Client) Document(ctx context.Context, id string) (Document, error) {
	doc, err := c.ingestSvc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("document: %w", err)
	}
	return fromDocument(&doc), nil
}

// Alerts returns the alert history for one document, oldest first.
func (c *Client) Alerts(ctx context.Context, documentID string) ([]Alert, error) {
	alerts, err := c.alertSvc.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("alerts: %w", err)
	}
	return fromAlerts(alerts), nil
}

// Search runs a risk-aware hybrid query. opts may be nil.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (SearchResult, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	f, err := filter.New(opts.RiskLevel, opts.Compliance)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	req, err := request.New(query, f, opts.TopK)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	resp := c.searchSvc.Search(ctx, &req)
	return SearchResult{
		Items:   fromResults(resp.Results),
		Summary: resp.Summary,
		Alerts:  fromAlerts(resp.Alerts),
	}, nil
}

// Stats returns a corpus snapshot.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	st, err := c.statsSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	byLevel := make(map[string]int, len(st.ByLevel))
	for level, n := range st.ByLevel {
		byLevel[string(level)] = n
	}
	return Stats{
		Documents:      st.Documents,
		ByRiskLevel:    byLevel,
		Alerts:         st.Alerts,
		IndexedVectors: st.IndexedVectors,
	}, nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
