package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryBeginGetComplete(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, repo.Begin(ctx, Run{
		ID:        id,
		SessionID: "s1",
		Filename:  "doc.pdf",
		Formats:   []string{"text"},
		StartedAt: time.Now(),
	}))

	run, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, RunRunning, run.Status)
	require.Nil(t, run.FinishedAt)

	finished := time.Now()
	msg := "boom"
	require.NoError(t, repo.Complete(ctx, id, finished, RunError, &msg))

	run, err = repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, RunError, run.Status)
	require.NotNil(t, run.FinishedAt)
	require.Equal(t, &msg, run.ErrorMessage)
}

func TestMemoryNotFound(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx := context.Background()

	_, err := repo.Get(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.Complete(ctx, uuid.New(), time.Now(), RunSuccess, nil), ErrNotFound)
}

func TestMemoryListFiltersAndOrders(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx := context.Background()
	base := time.Now()

	older := uuid.New()
	newer := uuid.New()
	require.NoError(t, repo.Begin(ctx, Run{ID: older, Filename: "a.pdf", StartedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Begin(ctx, Run{ID: newer, Filename: "b.pdf", StartedAt: base}))
	require.NoError(t, repo.Complete(ctx, older, base, RunSuccess, nil))

	all, err := repo.List(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, newer, all[0].ID)

	status := RunSuccess
	succeeded, err := repo.List(ctx, &status, 10, 0)
	require.NoError(t, err)
	require.Len(t, succeeded, 1)
	require.Equal(t, older, succeeded[0].ID)

	paged, err := repo.List(ctx, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	require.Equal(t, older, paged[0].ID)

	empty, err := repo.List(ctx, nil, 10, 5)
	require.NoError(t, err)
	require.Empty(t, empty)
}
