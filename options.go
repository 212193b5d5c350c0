package riskdex

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis" or "memory"
	addrs    []string
	password string

	provider      string // "openai" or "mock"
	apiKey        string
	baseURL       string
	embedModel    string
	classifyModel string
	dimensions    int

	logger *zap.Logger
}

// WithRedis configures the client to persist documents in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemory configures the client with an in-process store.
// Documents do not survive the process; useful for tests and demos.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithOpenAI classifies documents with an OpenAI-compatible API.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithMockClassifier uses the deterministic keyword-based classifier.
// Risk levels and embeddings are heuristic, not model-derived.
func WithMockClassifier() Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "mock"
	})
}

// WithModels overrides the embedding and classification model names.
// Only meaningful together with WithOpenAI.
func WithModels(embedModel, classifyModel string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedModel = embedModel
		c.classifyModel = classifyModel
	})
}

// WithDimensions sets the embedding vector dimension. Default: 384.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithLogger enables structured logging for client operations.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
