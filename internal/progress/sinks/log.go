// Package sinks contains progress.Sink implementations: structured logging
// and Prometheus metrics.
package sinks

import (
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

// LogSink writes snapshots to a zap logger. Intermediate updates log at
// debug; terminal snapshots at info so completed runs stay visible in
// production logs.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Record implements progress.Sink.
func (s *LogSink) Record(sessionID string, snap progress.Snapshot) error {
	fields := []zap.Field{
		zap.String("session_id", sessionID),
		zap.Int("progress", snap.Progress),
		zap.String("status", snap.Status),
	}
	if snap.TimeRemaining != nil {
		fields = append(fields, zap.Int("time_remaining_s", *snap.TimeRemaining))
	}
	switch {
	case snap.Failed:
		s.logger.Info("extraction failed", fields...)
	case snap.Progress >= progress.Complete:
		s.logger.Info("extraction complete", fields...)
	default:
		s.logger.Debug("extraction progress", fields...)
	}
	return nil
}
