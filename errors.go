package riskdex

import "github.com/quantfold/riskdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrDocumentNotFound    = domain.ErrDocumentNotFound
	ErrModelUnavailable    = domain.ErrModelUnavailable
	ErrStorageInconsistent = domain.ErrStorageInconsistent
	ErrInvalidFilter       = domain.ErrInvalidFilter
	ErrInvalidDocument     = domain.ErrInvalidDocument
	ErrVectorDimMismatch   = domain.ErrVectorDimMismatch
)
