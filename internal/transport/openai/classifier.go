// Package openai implements the classification model contract against an
// OpenAI-compatible API: embeddings for the vector, a JSON-mode chat
// completion for the risk level and compliance tags.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/risk"
	"github.com/quantfold/riskdex/internal/metrics"
)

const classifyPrompt = `You are a banking risk classifier. Given a document, respond with JSON only:
{"risk_level": one of LOW, MEDIUM, HIGH, CRITICAL,
 "compliance_tags": subset of [BASEL_III, DODD_FRANK, SOX, GDPR, AML_KYC, MIFID_II]}
Classify the overall risk severity and every regulatory framework the document relates to.`

// Classifier talks to an OpenAI-compatible API (e.g. Nebius).
type Classifier struct {
	client        *openai.Client
	embedModel    openai.EmbeddingModel
	classifyModel string
	dimensions    int
	user          string
	provider      string
	logger        *zap.Logger
}

// Config holds the classifier provider settings.
type Config struct {
	APIKey        string
	BaseURL       string
	EmbedModel    string
	ClassifyModel string
	Dimensions    int
	User          string
	Provider      string
	Logger        *zap.Logger
}

// NewClassifier creates an OpenAI-compatible classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Classifier{
		client:        openai.NewClientWithConfig(clientCfg),
		embedModel:    openai.EmbeddingModel(cfg.EmbedModel),
		classifyModel: cfg.ClassifyModel,
		dimensions:    cfg.Dimensions,
		user:          cfg.User,
		provider:      cfg.Provider,
		logger:        cfg.Logger,
	}
}

// Classify implements domain.Classifier: one embedding call plus one
// JSON-mode chat call.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	embedding, err := c.Embed(ctx, text)
	if err != nil {
		return domain.Classification{}, err
	}

	level, tags, err := c.classifyText(ctx, text)
	if err != nil {
		return domain.Classification{}, err
	}

	return domain.Classification{
		Embedding:      embedding,
		RiskLevel:      level,
		ComplianceTags: tags,
	}, nil
}

// Embed implements domain.Embedder.
func (c *Classifier) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.embedModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           c.user,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	start := time.Now()
	resp, err := c.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	model := string(c.embedModel)
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, model, "embed", "error").Inc()
		metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, model, "api_error").Inc()
		return nil, parseAPIError("embedding", err)
	}
	if len(resp.Data) == 0 {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, model, "embed", "error").Inc()
		metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, model, "empty_response").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrModelUnavailable)
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, model, "embed", "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(c.provider, model, "embed").Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.ClassifierTokensTotal.WithLabelValues(c.provider, model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.ClassifierTokensTotal.WithLabelValues(c.provider, model, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Data[0].Embedding, nil
}

func (c *Classifier) classifyText(ctx context.Context, text string) (risk.Level, []risk.ComplianceTag, error) {
	req := openai.ChatCompletionRequest{
		Model: c.classifyModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: c.user,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, c.classifyModel, "classify", "error").Inc()
		metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, c.classifyModel, "api_error").Inc()
		return "", nil, parseAPIError("classification", err)
	}
	if len(resp.Choices) == 0 {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, c.classifyModel, "classify", "error").Inc()
		metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, c.classifyModel, "empty_response").Inc()
		return "", nil, fmt.Errorf("empty classification response: %w", domain.ErrModelUnavailable)
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, c.classifyModel, "classify", "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(c.provider, c.classifyModel, "classify").
		Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.ClassifierTokensTotal.WithLabelValues(c.provider, c.classifyModel, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	level, tags, err := parseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, c.classifyModel, "bad_payload").Inc()
		c.logger.Warn("unparseable classification payload",
			zap.String("payload", resp.Choices[0].Message.Content), zap.Error(err))
		return "", nil, fmt.Errorf("parse classification: %w: %w", domain.ErrModelUnavailable, err)
	}
	return level, tags, nil
}

// parseClassification decodes the model's JSON verdict. Unknown tags are
// dropped, an unknown level is an error.
func parseClassification(payload string) (risk.Level, []risk.ComplianceTag, error) {
	var parsed struct {
		RiskLevel      string   `json:"risk_level"`
		ComplianceTags []string `json:"compliance_tags"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return "", nil, fmt.Errorf("unmarshal verdict: %w", err)
	}

	level, ok := risk.ParseLevel(parsed.RiskLevel)
	if !ok {
		return "", nil, fmt.Errorf("unknown risk level %q", parsed.RiskLevel)
	}

	var tags []risk.ComplianceTag
	for _, raw := range parsed.ComplianceTags {
		if t, ok := risk.ParseComplianceTag(raw); ok {
			tags = append(tags, t)
		}
	}
	return level, tags, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrModelUnavailable for correct 502 mapping.
func parseAPIError(op string, err error) error {
	wrap := domain.ErrModelUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("%s API error %d: %s: %w", op, reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("%s API error %d: %s: %w", op, reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s request failed: %w", op, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
