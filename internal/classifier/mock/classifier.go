// Package mock provides a deterministic stand-in for the classification
// model: hashed bag-of-words embeddings plus lexical level and tag
// heuristics. Intended for development and tests; never for production.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/risk"
	"github.com/quantfold/riskdex/internal/index/keyword"
)

// DefaultDim matches the embedding width of the production model.
const DefaultDim = 384

// Classifier implements domain.Classifier and domain.Embedder without
// any external calls. Same text in, same output out.
type Classifier struct {
	dim int
}

// New creates a mock classifier with the given embedding dimension.
func New(dim int) *Classifier {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Classifier{dim: dim}
}

// Dim returns the embedding dimension.
func (c *Classifier) Dim() int { return c.dim }

// Classify derives an embedding, level, and tags from the text alone.
func (c *Classifier) Classify(_ context.Context, text string) (domain.Classification, error) {
	return domain.Classification{
		Embedding:      c.embed(text),
		RiskLevel:      levelOf(text),
		ComplianceTags: tagsOf(text),
	}, nil
}

// Embed vectorizes text via hashed bag-of-words. Each token increments
// one slot, so overlapping vocabularies land near each other in L2 space.
func (c *Classifier) Embed(_ context.Context, text string) ([]float32, error) {
	return c.embed(text), nil
}

// HealthCheck always succeeds.
func (c *Classifier) HealthCheck(context.Context) error { return nil }

func (c *Classifier) embed(text string) []float32 {
	vec := make([]float32, c.dim)
	for _, tok := range keyword.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(c.dim)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func levelOf(text string) risk.Level {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "critical"):
		return risk.Critical
	case strings.Contains(lower, "severe"), strings.Contains(lower, "failure"):
		return risk.High
	case strings.Contains(lower, "risk"):
		return risk.Medium
	default:
		return risk.Low
	}
}

var tagMarkers = []struct {
	substr string
	tag    risk.ComplianceTag
}{
	{"basel", risk.BaselIII},
	{"dodd-frank", risk.DoddFrank},
	{"dodd frank", risk.DoddFrank},
	{"sarbanes", risk.SOX},
	{"sox", risk.SOX},
	{"gdpr", risk.GDPR},
	{"anti-money laundering", risk.AMLKYC},
	{"aml", risk.AMLKYC},
	{"kyc", risk.AMLKYC},
	{"mifid", risk.MiFIDII},
}

func tagsOf(text string) []risk.ComplianceTag {
	lower := strings.ToLower(text)
	var tags []risk.ComplianceTag
	seen := map[risk.ComplianceTag]bool{}
	for _, m := range tagMarkers {
		if seen[m.tag] {
			continue
		}
		if strings.Contains(lower, m.substr) {
			tags = append(tags, m.tag)
			seen[m.tag] = true
		}
	}
	return tags
}
