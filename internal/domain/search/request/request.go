package request

import (
	"fmt"

	"github.com/quantfold/riskdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 100
)

// Request is a validated search query.
type Request struct {
	query   string
	filters filter.Filter
	topK    int
}

// New validates and normalizes search parameters.
// Defaults: topK=10, clamped to 100.
func New(query string, filters filter.Filter, topK int) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	return Request{query: query, filters: filters, topK: topK}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Filters returns the hard filters.
func (r *Request) Filters() filter.Filter { return r.filters }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }
