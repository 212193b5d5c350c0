package risk

// Profile is a document's score across the five risk categories
// (immutable value object). Every category is always present; scores
// stay within [0, 1].
type Profile struct {
	scores map[Category]float64
}

// NewProfile creates a profile with all categories at 0.
func NewProfile() Profile {
	scores := make(map[Category]float64, len(Categories()))
	for _, c := range Categories() {
		scores[c] = 0
	}
	return Profile{scores: scores}
}

// ReconstructProfile builds a profile from raw scores (storage hydration).
// Unknown categories are dropped, missing ones default to 0, and every
// score is clamped to [0, 1].
func ReconstructProfile(raw map[Category]float64) Profile {
	p := NewProfile()
	for c, v := range raw {
		if !c.IsValid() {
			continue
		}
		p.scores[c] = clamp01(v)
	}
	return p
}

// Score returns the score for a category (0 for unknown categories).
func (p Profile) Score(c Category) float64 {
	return p.scores[c]
}

// Scores returns a copy of all five category scores.
func (p Profile) Scores() map[Category]float64 {
	out := make(map[Category]float64, len(p.scores))
	for c, v := range p.scores {
		out[c] = v
	}
	return out
}

// WithScore returns a copy with the score for a category set (clamped to [0, 1]).
func (p Profile) WithScore(c Category, v float64) Profile {
	out := ReconstructProfile(p.scores)
	if c.IsValid() {
		out.scores[c] = clamp01(v)
	}
	return out
}

// CountAbove returns how many categories score strictly above the threshold.
func (p Profile) CountAbove(threshold float64) int {
	n := 0
	for _, c := range Categories() {
		if p.scores[c] > threshold {
			n++
		}
	}
	return n
}

// CategoriesAbove returns the categories scoring strictly above the
// threshold, in fixed category order.
func (p Profile) CategoriesAbove(threshold float64) []Category {
	var out []Category
	for _, c := range Categories() {
		if p.scores[c] > threshold {
			out = append(out, c)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
