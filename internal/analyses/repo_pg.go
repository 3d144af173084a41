package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row. Matched keywords are stored as jsonb.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, resume_id, user_id, job_description, score, matched_keywords, analysis, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	matched := analysis.MatchedKeywords
	if matched == nil {
		matched = []string{}
	}
	matchedJSON, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("marshal matched keywords: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.ResumeID,
		nullableString(analysis.UserID),
		analysis.JobDescription,
		analysis.Score,
		matchedJSON,
		analysis.Narrative,
		analysis.CreatedAt,
	)
	return err
}

// ListByUser returns the caller's analyses, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	const query = `
SELECT id, resume_id, user_id, job_description, score, matched_keywords, analysis, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		var owner sql.NullString
		var matchedJSON []byte
		if err := rows.Scan(
			&a.ID,
			&a.ResumeID,
			&owner,
			&a.JobDescription,
			&a.Score,
			&matchedJSON,
			&a.Narrative,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if owner.Valid {
			a.UserID = owner.String
		}
		if len(matchedJSON) > 0 {
			if err := json.Unmarshal(matchedJSON, &a.MatchedKeywords); err != nil {
				return nil, fmt.Errorf("unmarshal matched keywords: %w", err)
			}
		}
		if a.MatchedKeywords == nil {
			a.MatchedKeywords = []string{}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
