package document

import (
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

// docDTO is the JSON shape stored under the document key.
type docDTO struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	RiskLevel      string             `json:"risk_level"`
	ComplianceTags []string           `json:"compliance_tags,omitempty"`
	RiskProfile    map[string]float64 `json:"risk_profile"`
	Vector         []float32          `json:"vector"`
}

func toDTO(doc *domdoc.Document) docDTO {
	tags := doc.ComplianceTags()
	rawTags := make([]string, len(tags))
	for i, t := range tags {
		rawTags[i] = string(t)
	}
	scores := doc.Profile().Scores()
	rawScores := make(map[string]float64, len(scores))
	for c, v := range scores {
		rawScores[string(c)] = v
	}
	return docDTO{
		ID:             doc.ID(),
		Title:          doc.Title(),
		Content:        doc.Content(),
		RiskLevel:      string(doc.RiskLevel()),
		ComplianceTags: rawTags,
		RiskProfile:    rawScores,
		Vector:         doc.Vector(),
	}
}

func (d docDTO) toDomain() domdoc.Document {
	tags := make([]risk.ComplianceTag, 0, len(d.ComplianceTags))
	for _, t := range d.ComplianceTags {
		tags = append(tags, risk.ComplianceTag(t))
	}
	scores := make(map[risk.Category]float64, len(d.RiskProfile))
	for c, v := range d.RiskProfile {
		scores[risk.Category(c)] = v
	}
	return domdoc.Reconstruct(
		d.ID, d.Title, d.Content,
		risk.Level(d.RiskLevel),
		tags,
		risk.ReconstructProfile(scores),
		d.Vector,
	)
}
