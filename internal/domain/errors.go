package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrModelUnavailable signals that the classification model is unreachable.
	ErrModelUnavailable = errors.New("classification model unavailable")
	// ErrStorageInconsistent signals that the vector index and metadata store diverged.
	ErrStorageInconsistent = errors.New("storage inconsistent")
	// ErrInvalidFilter signals an unrecognized filter key or value.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidDocument signals a document that fails validation.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
