package resumes

import (
	"context"
	"errors"
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
	resume := Resume{
		ID:        "resume-1",
		UserID:    "user-1",
		Filename:  "resume.pdf",
		Text:      "Experienced Go developer",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(resume.ID, resume.UserID, resume.Filename, resume.Text, resume.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateAnonymousOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("resume-1", nil, "resume.txt", "text", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), Resume{
		ID: "resume-1", Filename: "resume.txt", Text: "text", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT id, user_id, filename").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "filename", "content", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
