package resumes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no resume matches the lookup.
var ErrNotFound = errors.New("resume not found")

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
}
