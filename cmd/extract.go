package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/extract"
	"github.com/mwai-ops/doc-intel/internal/format"
	"github.com/mwai-ops/doc-intel/internal/progress"
)

// newExtractCmd creates the 'extract' subcommand: a one-shot extraction of a
// local PDF without running the HTTP service.
func newExtractCmd() *cobra.Command {
	var (
		formats   []string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Extracts a single PDF from the command line",
		Long: `Analyzes one PDF with the configured analysis provider and writes
the requested output formats next to the source file or into --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtractCommand(cmd, args[0], formats, outputDir)
		},
	}
	cmd.Flags().StringSliceVar(&formats, "format", []string{"text"}, "output formats: text, markdown, json")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for output files (default: alongside the input)")
	return cmd
}

func runExtractCommand(cmd *cobra.Command, path string, formats []string, outputDir string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	document, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Only the analyzer and the run journal are needed for a one-shot
	// extraction; no artifact store or publisher is constructed.
	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	repo, repoCloser, err := buildJournal(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if repoCloser != nil {
		defer func() {
			if cerr := repoCloser(); cerr != nil {
				logger.Warn("journal close failed", zap.Error(cerr))
			}
		}()
	}

	orchestrator, err := extract.NewOrchestrator(extract.OrchestratorConfig{
		Analyzer: analyzer,
		Progress: progress.NewStore(),
		Journal:  repo,
		Logger:   logger.Named("extract"),
	})
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	resp, err := orchestrator.Extract(cmd.Context(), extract.Request{
		Filename: filepath.Base(path),
		Formats:  formats,
		Document: document,
	})
	if err != nil {
		return err
	}

	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for f, content := range resp.Results {
		outPath := filepath.Join(outputDir, base+extensionFor(f))
		data, err := renderOutput(f, content)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	}
	return nil
}

func renderOutput(f format.Format, content any) ([]byte, error) {
	switch v := content.(type) {
	case string:
		return []byte(v), nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s output: %w", f, err)
		}
		return data, nil
	}
}

func extensionFor(f format.Format) string {
	switch f {
	case format.Markdown:
		return ".md"
	case format.JSON:
		return ".json"
	default:
		return ".txt"
	}
}
