package sinks

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

func TestPrometheusSinkTracksRunningExtractions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.Record("s1", progress.Snapshot{Progress: 10}))
	require.NoError(t, sink.Record("s1", progress.Snapshot{Progress: 50}))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.extractionsRunning))

	require.NoError(t, sink.Record("s2", progress.Snapshot{Progress: 5}))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.extractionsRunning))

	require.NoError(t, sink.Record("s1", progress.Snapshot{Progress: 100}))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.extractionsRunning))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.extractionsCompleted.WithLabelValues("success")))
}

func TestPrometheusSinkCountsFailures(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.Record("s1", progress.Snapshot{Progress: 30}))
	require.NoError(t, sink.Record("s1", progress.Snapshot{Progress: 30, Failed: true}))

	require.Equal(t, 0.0, testutil.ToFloat64(sink.extractionsRunning))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.extractionsCompleted.WithLabelValues("failure")))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.updatesTotal))
}

func TestPrometheusSinkDuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
