package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, Snapshot{Progress: 99}.Terminal())
	require.True(t, Snapshot{Progress: 100}.Terminal())
	require.True(t, Snapshot{Progress: 42, Failed: true}.Terminal())
}

func TestBudgetAbsoluteScalesAndClamps(t *testing.T) {
	t.Parallel()

	b := Budget{Base: 90, Span: 10}
	require.Equal(t, 90, b.Absolute(0))
	require.Equal(t, 95, b.Absolute(50))
	require.Equal(t, 100, b.Absolute(100))
	require.Equal(t, 90, b.Absolute(-10))
	require.Equal(t, 100, b.Absolute(400))
}

func TestSplitBudgetEvenDivision(t *testing.T) {
	t.Parallel()

	budgets := SplitBudget(90, 10, 2)
	require.Equal(t, []Budget{{Base: 90, Span: 5}, {Base: 95, Span: 5}}, budgets)
}

func TestSplitBudgetSlackOnLastSegment(t *testing.T) {
	t.Parallel()

	budgets := SplitBudget(90, 10, 3)
	require.Equal(t, []Budget{
		{Base: 90, Span: 3},
		{Base: 93, Span: 3},
		{Base: 96, Span: 4},
	}, budgets)
}

func TestSplitBudgetCoversWholeSpan(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 10; n++ {
		budgets := SplitBudget(90, 10, n)
		require.Len(t, budgets, n)
		require.Equal(t, 90, budgets[0].Base)

		total := 0
		for i, b := range budgets {
			total += b.Span
			if i > 0 {
				require.Equal(t, budgets[i-1].Base+budgets[i-1].Span, b.Base)
			}
		}
		require.Equal(t, 10, total)
		last := budgets[n-1]
		require.Equal(t, 100, last.Base+last.Span)
	}
}

func TestSplitBudgetRejectsNonPositiveCount(t *testing.T) {
	t.Parallel()

	require.Nil(t, SplitBudget(90, 10, 0))
	require.Nil(t, SplitBudget(90, 10, -1))
}
