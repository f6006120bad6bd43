package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestPostgresBeginInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	started := time.Unix(1700000000, 0).UTC()
	run := Run{
		ID:        uuid.New(),
		SessionID: "s1",
		Filename:  "doc.pdf",
		Formats:   []string{"text", "json"},
		StartedAt: started,
	}

	mock.ExpectExec("INSERT INTO extraction_runs").
		WithArgs(run.ID, run.SessionID, run.Filename, run.Formats, run.StartedAt, "running").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Begin(context.Background(), run))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBeginRequiresID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	require.Error(t, repo.Begin(context.Background(), Run{Filename: "doc.pdf"}))
}

func TestPostgresCompleteUpdatesRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	id := uuid.New()
	finished := time.Unix(1700000100, 0).UTC()
	msg := "analysis failed"

	mock.ExpectExec("UPDATE extraction_runs").
		WithArgs(id, finished, "error", &msg).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Complete(context.Background(), id, finished, RunError, &msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteUnknownRunReturnsNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	id := uuid.New()
	finished := time.Unix(1700000100, 0).UTC()

	mock.ExpectExec("UPDATE extraction_runs").
		WithArgs(id, finished, "success", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Complete(context.Background(), id, finished, RunSuccess, nil)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetScansRun(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	id := uuid.New()
	started := time.Unix(1700000000, 0).UTC()
	finished := started.Add(42 * time.Second)

	rows := pgxmock.NewRows([]string{
		"id", "session_id", "filename", "formats", "started_at", "finished_at", "status", "error_message",
	}).AddRow(id, "s1", "doc.pdf", []string{"text"}, started, &finished, "success", (*string)(nil))

	mock.ExpectQuery("SELECT (.+) FROM extraction_runs").
		WithArgs(id).
		WillReturnRows(rows)

	run, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, run.ID)
	require.Equal(t, RunSuccess, run.Status)
	require.Equal(t, []string{"text"}, run.Formats)
	require.NotNil(t, run.FinishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	id := uuid.New()
	rows := pgxmock.NewRows([]string{
		"id", "session_id", "filename", "formats", "started_at", "finished_at", "status", "error_message",
	})
	mock.ExpectQuery("SELECT (.+) FROM extraction_runs").
		WithArgs(id).
		WillReturnRows(rows)

	_, err = repo.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresListScansRuns(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewPostgresWithPool(mock)
	require.NoError(t, err)

	started := time.Unix(1700000000, 0).UTC()
	rows := pgxmock.NewRows([]string{
		"id", "session_id", "filename", "formats", "started_at", "finished_at", "status", "error_message",
	}).
		AddRow(uuid.New(), "s2", "b.pdf", []string{"json"}, started, (*time.Time)(nil), "running", (*string)(nil)).
		AddRow(uuid.New(), "s1", "a.pdf", []string{"text"}, started.Add(-time.Hour), (*time.Time)(nil), "running", (*string)(nil))

	status := RunRunning
	statusStr := string(status)
	mock.ExpectQuery("SELECT (.+) FROM extraction_runs").
		WithArgs(&statusStr, 10, 0).
		WillReturnRows(rows)

	runs, err := repo.List(context.Background(), &status, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "b.pdf", runs[0].Filename)
	require.NoError(t, mock.ExpectationsWereMet())
}
