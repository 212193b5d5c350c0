// Package document persists risk documents as JSON values keyed by ID.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quantfold/riskdex/internal/db"
	"github.com/quantfold/riskdex/internal/domain"
	domdoc "github.com/quantfold/riskdex/internal/domain/document"
)

const keyPrefix = "riskdex:doc:"

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the usecase document repositories.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	key := docKey(doc.ID())
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return false, fmt.Errorf("marshal document: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := docKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseJSONGetResult(raw)
}

// All returns every stored document ordered by ID. Used to rebuild the
// in-process indexes, so the order must be deterministic across calls.
func (r *Repo) All(ctx context.Context) ([]domdoc.Document, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	sort.Strings(keys)

	docs := make([]domdoc.Document, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				// deleted between SCAN and JSON.GET
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		doc, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan documents: %w", err)
	}
	return len(keys), nil
}

// parseJSONGetResult handles both root-path and "$"-path JSON.GET replies.
// The "$" form wraps the value in a one-element array.
func parseJSONGetResult(raw []byte) (domdoc.Document, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var dtos []docDTO
		if err := json.Unmarshal(raw, &dtos); err != nil {
			return domdoc.Document{}, fmt.Errorf("unmarshal document array: %w", err)
		}
		if len(dtos) == 0 {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return dtos[0].toDomain(), nil
	}
	var dto docDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domdoc.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return dto.toDomain(), nil
}

func docKey(id string) string {
	return keyPrefix + id
}
