// Package alert persists the append-only alert log, one list per document.
package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quantfold/riskdex/internal/db"
	domalert "github.com/quantfold/riskdex/internal/domain/alert"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

const (
	keyPrefix  = "riskdex:alerts:"
	counterKey = "riskdex:alerts:total"
)

// store is the consumer interface for the alert log (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo implements the usecase alert repositories.
type Repo struct {
	store store
}

// New creates an alert repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// alertDTO is the JSON shape stored per list entry.
type alertDTO struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id,omitempty"`
	Kind        string    `json:"kind"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Append adds alerts to the per-document log in order and bumps the
// global counter. Alerts without a document ID land under a shared key.
func (r *Repo) Append(ctx context.Context, alerts ...domalert.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	byKey := map[string][][]byte{}
	order := []string{}
	for i := range alerts {
		a := &alerts[i]
		data, err := json.Marshal(alertDTO{
			ID:          a.ID(),
			DocumentID:  a.DocumentID(),
			Kind:        string(a.Kind()),
			Severity:    string(a.Severity()),
			Description: a.Description(),
			CreatedAt:   a.CreatedAt(),
		})
		if err != nil {
			return fmt.Errorf("marshal alert %s: %w", a.ID(), err)
		}
		key := alertKey(a.DocumentID())
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], data)
	}

	for _, key := range order {
		if err := r.store.RPush(ctx, key, byKey[key]...); err != nil {
			return fmt.Errorf("rpush %s: %w", key, err)
		}
	}
	if err := r.store.IncrBy(ctx, counterKey, int64(len(alerts))); err != nil {
		return fmt.Errorf("incr alert counter: %w", err)
	}
	return nil
}

// ListByDocument returns all alerts for a document in append order.
func (r *Repo) ListByDocument(ctx context.Context, documentID string) ([]domalert.Alert, error) {
	key := alertKey(documentID)
	entries, err := r.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	alerts := make([]domalert.Alert, 0, len(entries))
	for _, raw := range entries {
		var dto alertDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal alert entry: %w", err)
		}
		alerts = append(alerts, domalert.Reconstruct(
			dto.ID, dto.DocumentID, domalert.Kind(dto.Kind),
			risk.Level(dto.Severity), dto.Description, dto.CreatedAt,
		))
	}
	return alerts, nil
}

// Count returns the total number of alerts ever recorded.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	data, err := r.store.Get(ctx, counterKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get alert counter: %w", err)
	}
	var n int64
	if _, err := fmt.Sscanf(string(data), "%d", &n); err != nil {
		return 0, fmt.Errorf("parse alert counter: %w", err)
	}
	return n, nil
}

func alertKey(documentID string) string {
	if documentID == "" {
		return keyPrefix + "_query"
	}
	return keyPrefix + documentID
}
