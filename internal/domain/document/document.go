package document

import (
	"fmt"
	"regexp"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is the risk-document aggregate (immutable value object).
// Construction is atomic: a document either validates fully or not at all.
type Document struct {
	id      string
	title   string
	content string
	level   risk.Level
	tags    []risk.ComplianceTag
	profile risk.Profile
	vector  []float32
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title and content non-empty,
// content max 160KB. Compliance tags are deduplicated; unknown tags
// are rejected.
func New(
	id, title, content string,
	level risk.Level,
	tags []risk.ComplianceTag,
	profile risk.Profile,
	vector []float32,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required: %w", domain.ErrInvalidDocument)
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256): %w", domain.ErrInvalidDocument)
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf(
			"document ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidDocument)
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required: %w", domain.ErrInvalidDocument)
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required: %w", domain.ErrInvalidDocument)
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes): %w", MaxContentSize, domain.ErrInvalidDocument)
	}
	if !level.IsValid() {
		return Document{}, fmt.Errorf("unknown risk level %q: %w", level, domain.ErrInvalidDocument)
	}
	for _, t := range tags {
		if !t.IsValid() {
			return Document{}, fmt.Errorf("unknown compliance tag %q: %w", t, domain.ErrInvalidDocument)
		}
	}

	return Document{
		id:      id,
		title:   title,
		content: content,
		level:   level,
		tags:    dedupeTags(tags),
		profile: profile,
		vector:  vector,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, title, content string,
	level risk.Level,
	tags []risk.ComplianceTag,
	profile risk.Profile,
	vector []float32,
) Document {
	return Document{
		id: id, title: title, content: content,
		level: level, tags: dedupeTags(tags), profile: profile, vector: vector,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Content returns the full document text.
func (d *Document) Content() string { return d.content }

// RiskLevel returns the model-assigned risk level.
func (d *Document) RiskLevel() risk.Level { return d.level }

// ComplianceTags returns the document's regulatory frameworks (no duplicates).
func (d *Document) ComplianceTags() []risk.ComplianceTag {
	out := make([]risk.ComplianceTag, len(d.tags))
	copy(out, d.tags)
	return out
}

// HasComplianceTag reports whether the document holds the given tag.
func (d *Document) HasComplianceTag(t risk.ComplianceTag) bool {
	for _, have := range d.tags {
		if have == t {
			return true
		}
	}
	return false
}

// Profile returns the document's risk profile.
func (d *Document) Profile() risk.Profile { return d.profile }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// dedupeTags removes duplicates preserving first-seen order.
func dedupeTags(tags []risk.ComplianceTag) []risk.ComplianceTag {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[risk.ComplianceTag]bool, len(tags))
	out := make([]risk.ComplianceTag, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
