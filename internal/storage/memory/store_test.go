package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSaveGetRemove(t *testing.T) {
	t.Parallel()

	store := New()

	ref, err := store.Save(context.Background(), "doc.pdf", "application/pdf", strings.NewReader("content"))
	require.NoError(t, err)
	require.Equal(t, "memory://doc.pdf", ref)

	content, ok := store.Get("doc.pdf")
	require.True(t, ok)
	require.Equal(t, []byte("content"), content)

	require.NoError(t, store.Remove(context.Background(), ref))
	_, ok = store.Get("doc.pdf")
	require.False(t, ok)

	require.Error(t, store.Remove(context.Background(), ref))
}
