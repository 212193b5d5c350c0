// Package chi exposes the HTTP API: document ingest and retrieval,
// risk-aware search, alert history, corpus stats, and operational
// endpoints (healthz, metrics).
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quantfold/riskdex/internal/domain"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/search/filter"
	"github.com/quantfold/riskdex/internal/domain/search/request"
	"github.com/quantfold/riskdex/internal/domain/search/result"
	alertuc "github.com/quantfold/riskdex/internal/usecase/alert"
	healthuc "github.com/quantfold/riskdex/internal/usecase/health"
	ingestuc "github.com/quantfold/riskdex/internal/usecase/ingest"
	searchuc "github.com/quantfold/riskdex/internal/usecase/search"
	statsuc "github.com/quantfold/riskdex/internal/usecase/stats"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeDocumentNotFound    = "document_not_found"
	codeModelUnavailable    = "model_unavailable"
	codeStorageInconsistent = "storage_inconsistent"
	codeInternalError       = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the riskdex HTTP API on a chi router.
type Server struct {
	ingest        *ingestuc.Service
	search        *searchuc.Service
	alerts        *alertuc.Engine
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	search *searchuc.Service,
	alerts *alertuc.Engine,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest: ingest,
		search: search,
		alerts: alerts,
		stats:  stats,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusBadGateway, codeModelUnavailable),
		sentinelHandler(domain.ErrStorageInconsistent, http.StatusInternalServerError, codeStorageInconsistent),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.IngestDocument)
		r.Get("/documents/{id}", s.GetDocument)
		r.Get("/documents/{id}/alerts", s.ListDocumentAlerts)
		r.Post("/search", s.SearchDocuments)
		r.Get("/stats", s.GetStats)
	})
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// IngestDocument handles POST /api/v1/documents.
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.ingest.Process(r.Context(), req.ID, req.Title, req.Content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/documents/%s", res.Document.ID()))
	}

	writeJSON(w, status, ingestResponse{
		Document: documentToAPI(&res.Document, false),
		Created:  res.Created,
		Alerts:   alertsToAPI(res.Alerts),
	})
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.ingest.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToAPI(&doc, true))
}

// ListDocumentAlerts handles GET /api/v1/documents/{id}/alerts.
func (s *Server) ListDocumentAlerts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// 404 for unknown documents rather than an empty list.
	if _, err := s.ingest.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	alerts, err := s.alerts.ListByDocument(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertListResponse{
		Items: alertsToAPI(alerts),
		Total: len(alerts),
	})
}

// SearchDocuments handles POST /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := searchRequestFromAPI(req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilter) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	resp := s.search.Search(r.Context(), &searchReq)

	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultToAPI(&resp.Results[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items:   items,
		Total:   len(items),
		Summary: resp.Summary,
		Alerts:  alertsToAPI(resp.Alerts),
	})
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	byLevel := make(map[string]int, len(st.ByLevel))
	for level, n := range st.ByLevel {
		byLevel[string(level)] = n
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Documents:      st.Documents,
		ByRiskLevel:    byLevel,
		Alerts:         st.Alerts,
		IndexedVectors: st.IndexedVectors,
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidDocument,
		domain.ErrInvalidFilter,
		domain.ErrVectorDimMismatch,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrModelUnavailable,
		domain.ErrStorageInconsistent,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ingestRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ingestResponse struct {
	Document documentResponse `json:"document"`
	Created  bool             `json:"created"`
	Alerts   []alertResponse  `json:"alerts,omitempty"`
}

type documentResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Content        string             `json:"content,omitempty"`
	RiskLevel      string             `json:"risk_level"`
	ComplianceTags []string           `json:"compliance_tags,omitempty"`
	RiskProfile    map[string]float64 `json:"risk_profile"`
}

type alertResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Kind        string    `json:"kind"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type alertListResponse struct {
	Items []alertResponse `json:"items"`
	Total int             `json:"total"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	TopK    int            `json:"top_k,omitempty"`
	Filters *searchFilters `json:"filters,omitempty"`
}

type searchFilters struct {
	RiskLevel  string `json:"risk_level,omitempty"`
	Compliance string `json:"compliance,omitempty"`
}

type searchResultItem struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Score          float64            `json:"score"`
	RiskLevel      string             `json:"risk_level"`
	RiskRelevant   bool               `json:"risk_relevant"`
	ComplianceTags []string           `json:"compliance_tags,omitempty"`
	RiskProfile    map[string]float64 `json:"risk_profile"`
}

type searchResponse struct {
	Items   []searchResultItem `json:"items"`
	Total   int                `json:"total"`
	Summary string             `json:"summary"`
	Alerts  []alertResponse    `json:"alerts,omitempty"`
}

type statsResponse struct {
	Documents      int            `json:"documents"`
	ByRiskLevel    map[string]int `json:"by_risk_level"`
	Alerts         int64          `json:"alerts"`
	IndexedVectors int            `json:"indexed_vectors"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToAPI(doc *domdoc.Document, includeContent bool) documentResponse {
	resp := documentResponse{
		ID:             doc.ID(),
		Title:          doc.Title(),
		RiskLevel:      string(doc.RiskLevel()),
		ComplianceTags: tagsToAPI(doc),
		RiskProfile:    profileToAPI(doc),
	}
	if includeContent {
		resp.Content = doc.Content()
	}
	return resp
}

func tagsToAPI(doc *domdoc.Document) []string {
	tags := doc.ComplianceTags()
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func profileToAPI(doc *domdoc.Document) map[string]float64 {
	scores := doc.Profile().Scores()
	out := make(map[string]float64, len(scores))
	for c, v := range scores {
		out[string(c)] = v
	}
	return out
}

func alertsToAPI(alerts []domalert.Alert) []alertResponse {
	if len(alerts) == 0 {
		return nil
	}
	out := make([]alertResponse, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		out[i] = alertResponse{
			ID:          a.ID(),
			DocumentID:  a.DocumentID(),
			Kind:        string(a.Kind()),
			Severity:    string(a.Severity()),
			Description: a.Description(),
			CreatedAt:   a.CreatedAt(),
		}
	}
	return out
}

func searchResultToAPI(r *result.Result) searchResultItem {
	doc := r.Document()
	return searchResultItem{
		ID:             doc.ID(),
		Title:          doc.Title(),
		Score:          r.Score(),
		RiskLevel:      string(doc.RiskLevel()),
		RiskRelevant:   r.RiskRelevant(),
		ComplianceTags: tagsToAPI(&doc),
		RiskProfile:    profileToAPI(&doc),
	}
}

func searchRequestFromAPI(req searchRequest) (request.Request, error) {
	var riskLevel, compliance string
	if req.Filters != nil {
		riskLevel = req.Filters.RiskLevel
		compliance = req.Filters.Compliance
	}

	f, err := filter.New(riskLevel, compliance)
	if err != nil {
		return request.Request{}, fmt.Errorf("parse filters: %w", err)
	}

	if req.TopK < 0 {
		return request.Request{}, fmt.Errorf("top_k must be between 1 and %d", request.MaxTopK)
	}

	r, err := request.New(req.Query, f, req.TopK)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return r, nil
}
