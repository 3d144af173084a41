package analyses

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no analysis matches the lookup.
var ErrNotFound = errors.New("analysis not found")

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error)
}
