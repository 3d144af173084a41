package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	analysis := Analysis{
		ID:              "analysis-1",
		ResumeID:        "resume-1",
		UserID:          "user-1",
		JobDescription:  "Python engineer with Docker",
		Score:           72.5,
		MatchedKeywords: []string{"python", "docker"},
		Narrative:       "Good fit.",
		CreatedAt:       now,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.ResumeID,
			analysis.UserID,
			analysis.JobDescription,
			analysis.Score,
			[]byte(`["python","docker"]`),
			analysis.Narrative,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateNilKeywordsStoredAsEmptyArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a1", "r1", nil, "jd text here", 0.0, []byte(`[]`), "n", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), Analysis{
		ID: "a1", ResumeID: "r1", JobDescription: "jd text here", Narrative: "n", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "resume_id", "user_id", "job_description", "score", "matched_keywords", "analysis", "created_at",
	}).
		AddRow("a2", "r2", "user-1", "jd two", 81.0, []byte(`["go"]`), "newest", now).
		AddRow("a1", "r1", "user-1", "jd one", 55.25, []byte(`[]`), "oldest", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, resume_id, user_id").
		WithArgs("user-1", 20).
		WillReturnRows(rows)

	out, err := repo.ListByUser(context.Background(), "user-1", 20)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "a2" || out[0].Narrative != "newest" {
		t.Fatalf("first row = %+v", out[0])
	}
	if len(out[0].MatchedKeywords) != 1 || out[0].MatchedKeywords[0] != "go" {
		t.Fatalf("matched = %v", out[0].MatchedKeywords)
	}
	if out[1].MatchedKeywords == nil || len(out[1].MatchedKeywords) != 0 {
		t.Fatalf("empty keywords must scan to an empty slice, got %v", out[1].MatchedKeywords)
	}
}
