package alert

import (
	"context"

	domalert "github.com/quantfold/riskdex/internal/domain/alert"
)

// Repository defines the storage contract for the alert log.
type Repository interface {
	Append(ctx context.Context, alerts ...domalert.Alert) error
	ListByDocument(ctx context.Context, documentID string) ([]domalert.Alert, error)
}
