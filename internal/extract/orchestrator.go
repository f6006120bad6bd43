// Package extract runs the document extraction pipeline: admission checks,
// a single remote analysis, and the requested output renderings, reporting
// progress for the whole run through one session reporter.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/analysis"
	"github.com/mwai-ops/doc-intel/internal/format"
	"github.com/mwai-ops/doc-intel/internal/journal"
	"github.com/mwai-ops/doc-intel/internal/progress"
	"github.com/mwai-ops/doc-intel/internal/publisher"
	"github.com/mwai-ops/doc-intel/internal/storage"
)

// Formatting owns the final slice of the progress timeline.
const (
	formattingBase = 90
	formattingSpan = 10
)

// Request describes one extraction: the document bytes, the formats to
// render, and an optional session ID for progress reporting.
type Request struct {
	SessionID string
	Filename  string
	Formats   []string
	Document  []byte
}

// Response carries the rendered outputs.
type Response struct {
	RunID    uuid.UUID
	Filename string
	Pages    int
	Results  format.Bundle
}

// CompletionEvent is the payload published when a run finishes successfully.
type CompletionEvent struct {
	RunID     string   `json:"run_id"`
	SessionID string   `json:"session_id,omitempty"`
	Filename  string   `json:"filename"`
	Formats   []string `json:"formats"`
	Pages     int      `json:"pages"`
	Duration  float64  `json:"duration_seconds"`
}

// OrchestratorConfig wires the orchestrator's collaborators. Analyzer and
// Progress are required; the rest default to inert implementations.
type OrchestratorConfig struct {
	Analyzer  analysis.Client
	Progress  *progress.Store
	Artifacts storage.ArtifactStore
	Journal   journal.Repository
	Publisher publisher.Publisher
	Topic     string
	Sinks     []progress.Sink
	Driver    Driver
	Logger    *zap.Logger
}

// Orchestrator coordinates one extraction end to end.
type Orchestrator struct {
	analyzer  analysis.Client
	progress  *progress.Store
	artifacts storage.ArtifactStore
	journal   journal.Repository
	publisher publisher.Publisher
	topic     string
	sinks     []progress.Sink
	driver    Driver
	logger    *zap.Logger

	pageCount func([]byte) (int, error)
}

// NewOrchestrator builds an Orchestrator from its config.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if cfg.Progress == nil {
		return nil, fmt.Errorf("progress store is required")
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.NewMemory()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = publisher.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Orchestrator{
		analyzer:  cfg.Analyzer,
		progress:  cfg.Progress,
		artifacts: cfg.Artifacts,
		journal:   cfg.Journal,
		publisher: cfg.Publisher,
		topic:     cfg.Topic,
		sinks:     cfg.Sinks,
		driver:    cfg.Driver,
		logger:    cfg.Logger,
		pageCount: countPages,
	}, nil
}

// countPages runs the structural admission check on the raw upload.
func countPages(document []byte) (int, error) {
	return api.PageCount(bytes.NewReader(document), nil)
}

// Extract runs the full pipeline for one request. On failure the session's
// final snapshot is a terminal failed one, so progress subscribers are
// released rather than left waiting.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (*Response, error) {
	formats, err := o.admit(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	filename := sanitizeFilename(req.Filename)

	var reporter *progress.Reporter
	if req.SessionID != "" {
		reporter = progress.NewReporter(req.SessionID, start, o.progress, o.logger, o.sinks...)
	}

	runID := uuid.New()
	if err := o.journal.Begin(ctx, journal.Run{
		ID:        runID,
		SessionID: req.SessionID,
		Filename:  filename,
		Formats:   formatNames(formats),
		StartedAt: start,
	}); err != nil {
		o.logger.Warn("journal begin failed", zap.String("run_id", runID.String()), zap.Error(err))
	}

	resp, err := o.run(ctx, req, formats, filename, reporter)
	finished := time.Now()
	if err != nil {
		reporter.ReportFailure(fmt.Sprintf("Extraction failed: %v", err))
		msg := err.Error()
		if jerr := o.journal.Complete(ctx, runID, finished, journal.RunError, &msg); jerr != nil {
			o.logger.Warn("journal complete failed", zap.String("run_id", runID.String()), zap.Error(jerr))
		}
		return nil, err
	}
	resp.RunID = runID

	if jerr := o.journal.Complete(ctx, runID, finished, journal.RunSuccess, nil); jerr != nil {
		o.logger.Warn("journal complete failed", zap.String("run_id", runID.String()), zap.Error(jerr))
	}
	o.notify(ctx, runID, req, formats, resp, finished.Sub(start))
	return resp, nil
}

// run is the fallible middle of the pipeline, separated so Extract can apply
// the failure bookkeeping in one place.
func (o *Orchestrator) run(ctx context.Context, req Request, formats []format.Format, filename string, reporter *progress.Reporter) (*Response, error) {
	reporter.Report(0, "Starting extraction...")
	reporter.Report(5, "Preparing document...")

	if o.artifacts != nil {
		ref, err := o.artifacts.Save(ctx, filename, "application/pdf", bytes.NewReader(req.Document))
		if err != nil {
			return nil, fmt.Errorf("save artifact: %w", err)
		}
		defer func() {
			// Cleanup is best effort; a stranded artifact never fails the run.
			if rerr := o.artifacts.Remove(context.WithoutCancel(ctx), ref); rerr != nil {
				o.logger.Warn("artifact cleanup failed", zap.String("ref", ref), zap.Error(rerr))
			}
		}()
	}

	reporter.Report(10, "Uploading to Azure AI...")
	op, err := o.analyzer.BeginAnalyze(ctx, req.Document)
	if err != nil {
		return nil, &RemoteServiceError{Op: "submit", Err: err}
	}

	result, err := o.driver.Drive(ctx, op, reporter.Report)
	if err != nil {
		return nil, err
	}

	doc := format.Document{Result: result, Filename: filename}
	budgets := progress.SplitBudget(formattingBase, formattingSpan, len(formats))
	results := make(format.Bundle, len(formats))
	for i, f := range formats {
		formatter, err := format.New(f)
		if err != nil {
			return nil, err
		}
		rendered, err := formatter.Render(doc, reporter.Scaled(budgets[i]))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		results[f] = rendered
	}

	reporter.Report(progress.Complete, "Complete!")
	return &Response{Filename: filename, Pages: result.PageCount(), Results: results}, nil
}

// admit rejects requests the pipeline cannot serve before any remote call.
func (o *Orchestrator) admit(req Request) ([]format.Format, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, Validationf("no file selected")
	}
	if !strings.HasSuffix(strings.ToLower(req.Filename), ".pdf") {
		return nil, Validationf("file must be a PDF")
	}
	if len(req.Formats) == 0 {
		return nil, Validationf("no output format selected")
	}
	formats, err := format.ParseAll(req.Formats)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if len(req.Document) == 0 {
		return nil, Validationf("uploaded file is empty")
	}
	pages, err := o.pageCount(req.Document)
	if err != nil {
		return nil, Validationf("file is not a readable PDF: %v", err)
	}
	if pages < 1 {
		return nil, Validationf("PDF has no pages")
	}
	return formats, nil
}

func (o *Orchestrator) notify(ctx context.Context, runID uuid.UUID, req Request, formats []format.Format, resp *Response, elapsed time.Duration) {
	event := CompletionEvent{
		RunID:     runID.String(),
		SessionID: req.SessionID,
		Filename:  resp.Filename,
		Formats:   formatNames(formats),
		Pages:     resp.Pages,
		Duration:  elapsed.Seconds(),
	}
	if _, err := o.publisher.Publish(ctx, o.topic, event); err != nil {
		o.logger.Warn("completion publish failed", zap.String("run_id", runID.String()), zap.Error(err))
	}
}

// sanitizeFilename strips any path components from an uploaded filename.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return "upload.pdf"
	}
	return name
}

func formatNames(formats []format.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}
