package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume row.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, filename, content, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		nullableString(resume.UserID),
		resume.Filename,
		resume.Text,
		resume.CreatedAt,
	)
	return err
}

// GetByID fetches a resume by id.
func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, filename, content, created_at
FROM resumes
WHERE id = $1
LIMIT 1`

	var resume Resume
	var userID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&resume.ID,
		&userID,
		&resume.Filename,
		&resume.Text,
		&resume.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if userID.Valid {
		resume.UserID = userID.String
	}
	return resume, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
