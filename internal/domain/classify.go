package domain

import (
	"context"

	"github.com/quantfold/riskdex/internal/domain/risk"
)

// Classifier is the shared contract for the external classification
// model: one call maps raw text to an embedding vector, a risk level,
// and a set of compliance tags. The engine never computes the level or
// tags itself.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Embedder vectorizes text without a full classification. Used on the
// query path, where level and tags are not needed.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker verifies classifier availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Classification is the model output for one text.
type Classification struct {
	Embedding      []float32
	RiskLevel      risk.Level
	ComplianceTags []risk.ComplianceTag
}
