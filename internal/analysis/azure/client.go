// Package azure implements the analysis contract against the Azure Document
// Intelligence REST API (begin-analyze, poll the operation location, fetch
// the analyze result).
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/analysis"
)

const (
	apiVersion     = "2023-07-31"
	keyHeader      = "Ocp-Apim-Subscription-Key"
	defaultTimeout = 30 * time.Second
)

// Config captures the connection parameters for the service.
type Config struct {
	// Endpoint is the resource endpoint, e.g. https://myres.cognitiveservices.azure.com.
	Endpoint string
	// Key is the subscription key sent on every request.
	Key string
	// Model selects the prebuilt model; defaults to prebuilt-document.
	Model string
}

// Client calls the Document Intelligence analyze API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New validates the configuration and returns a Client.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("subscription key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "prebuilt-document"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}, nil
}

// BeginAnalyze submits the document and returns a pollable operation handle.
func (c *Client) BeginAnalyze(ctx context.Context, document []byte) (analysis.Operation, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	url := fmt.Sprintf(
		"%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"),
		c.cfg.Model,
		apiVersion,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set(keyHeader, c.cfg.Key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit analyze request: %w", err)
	}
	defer closeBody(resp.Body, c.logger)

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("analyze submission rejected: %s", readAPIError(resp))
	}
	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return nil, fmt.Errorf("analyze response missing Operation-Location header")
	}
	c.logger.Debug("analysis submitted",
		zap.String("model", c.cfg.Model),
		zap.Int("bytes", len(document)),
	)
	return &operation{client: c, url: opURL}, nil
}

// operation polls one analyze result URL. The terminal response body is
// cached so Result does not re-fetch.
type operation struct {
	client *Client
	url    string

	mu    sync.Mutex
	final *analyzeResponse
}

// Done performs a single status check against the operation URL.
func (o *operation) Done(ctx context.Context) (bool, error) {
	o.mu.Lock()
	done := o.final != nil
	o.mu.Unlock()
	if done {
		return true, nil
	}

	state, err := o.poll(ctx)
	if err != nil {
		return false, err
	}
	switch state.Status {
	case "succeeded", "failed":
		o.mu.Lock()
		o.final = state
		o.mu.Unlock()
		return true, nil
	case "notStarted", "running":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected analyze status %q", state.Status)
	}
}

// Result converts the cached terminal response into the domain model.
func (o *operation) Result(ctx context.Context) (*analysis.Result, error) {
	o.mu.Lock()
	final := o.final
	o.mu.Unlock()
	if final == nil {
		// Callers normally wait for Done; fetch once for the ones that don't.
		resp, err := o.poll(ctx)
		if err != nil {
			return nil, err
		}
		if resp.Status != "succeeded" && resp.Status != "failed" {
			return nil, fmt.Errorf("analysis still %s", resp.Status)
		}
		final = resp
	}
	if final.Status == "failed" {
		msg := "analysis failed"
		if final.Error != nil && final.Error.Message != "" {
			msg = final.Error.Message
		}
		return nil, fmt.Errorf("remote analysis failed: %s", msg)
	}
	if final.AnalyzeResult == nil {
		return nil, fmt.Errorf("analysis succeeded but carried no result")
	}
	return toResult(final.AnalyzeResult), nil
}

func (o *operation) poll(ctx context.Context) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set(keyHeader, o.client.cfg.Key)

	resp, err := o.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll analyze operation: %w", err)
	}
	defer closeBody(resp.Body, o.client.logger)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll rejected: %s", readAPIError(resp))
	}
	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	return &out, nil
}

func readAPIError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return resp.Status
	}
	var wrapped struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
		return fmt.Sprintf("%s (%s): %s", resp.Status, wrapped.Error.Code, wrapped.Error.Message)
	}
	return fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
}

func closeBody(body io.Closer, logger *zap.Logger) {
	if err := body.Close(); err != nil {
		logger.Debug("close response body failed", zap.Error(err))
	}
}
