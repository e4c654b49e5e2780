package analyses

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateDefaultsToPending(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	repo := &PGRepo{DB: mockDB}

	mock.ExpectQuery("INSERT INTO analyses").
		WithArgs(
			int64(7),
			int64(42),
			StatusPending,
			"lab_report",
			"v1",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	created, err := repo.Create(context.Background(), Analysis{
		UserID:       7,
		DocumentID:   42,
		AnalysisType: "lab_report",
		Version:      "v1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("id = %d, want 9", created.ID)
	}
	if created.Status != StatusPending {
		t.Fatalf("status = %q, want %q", created.Status, StatusPending)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSummariesByDocument(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	repo := &PGRepo{DB: mockDB}

	rows := sqlmock.NewRows([]string{"id", "status", "analysis_type", "completed_at"}).
		AddRow(int64(1), StatusPending, "lab_report", nil)

	mock.ExpectQuery("SELECT id, status, analysis_type, completed_at").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	summaries, err := repo.SummariesByDocument(context.Background(), 42)
	if err != nil {
		t.Fatalf("SummariesByDocument: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Status != StatusPending || summaries[0].CompletedAt != nil {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
