package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBeginAnalyzeSubmitsAndPollsToCompletion(t *testing.T) {
	t.Parallel()

	var polls atomic.Int64
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /formrecognizer/documentModels/prebuilt-document:analyze", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		require.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		require.Equal(t, "2023-07-31", r.URL.Query().Get("api-version"))
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"status":"running"}`)
			return
		}
		payload := map[string]any{
			"status": "succeeded",
			"analyzeResult": map[string]any{
				"pages": []map[string]any{
					{"pageNumber": 1, "lines": []map[string]string{{"content": "Hello"}}},
				},
				"tables": []map[string]any{
					{
						"rowCount":    1,
						"columnCount": 1,
						"cells": []map[string]any{
							{"rowIndex": 0, "columnIndex": 0, "content": "cell"},
						},
					},
				},
				"keyValuePairs": []map[string]any{
					{"key": map[string]string{"content": "Total"}, "value": map[string]string{"content": "42"}},
				},
				"paragraphs": []map[string]any{
					{"content": "Hello", "boundingRegions": []map[string]int{{"pageNumber": 1}}},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})

	client, err := New(Config{Endpoint: srv.URL, Key: "secret-key"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	op, err := client.BeginAnalyze(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	ctx := context.Background()
	done, err := op.Done(ctx)
	require.NoError(t, err)
	require.False(t, done)

	done, err = op.Done(ctx)
	require.NoError(t, err)
	require.False(t, done)

	done, err = op.Done(ctx)
	require.NoError(t, err)
	require.True(t, done)

	result, err := op.Result(ctx)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	require.Equal(t, "Hello", result.Pages[0].Lines[0].Content)
	require.Equal(t, 0, result.Tables[0].Cells[0].Row)
	require.Equal(t, "Total", result.KeyValuePairs[0].Key)
	require.Equal(t, 1, result.Paragraphs[0].Regions[0].PageNumber)

	// The terminal response is cached; Result does not poll again.
	require.Equal(t, int64(3), polls.Load())
}

func TestBeginAnalyzeRejectedSubmission(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"401","message":"Access denied"}}`)
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, Key: "bad-key"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	_, err = client.BeginAnalyze(context.Background(), []byte("%PDF-fake"))
	require.ErrorContains(t, err, "Access denied")
}

func TestBeginAnalyzeMissingOperationLocation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, Key: "k"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	_, err = client.BeginAnalyze(context.Background(), []byte("%PDF-fake"))
	require.ErrorContains(t, err, "Operation-Location")
}

func TestResultSurfacesRemoteFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"failed","error":{"code":"InvalidContent","message":"corrupt document"}}`)
	})

	client, err := New(Config{Endpoint: srv.URL, Key: "k"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	op, err := client.BeginAnalyze(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	done, err := op.Done(context.Background())
	require.NoError(t, err)
	require.True(t, done)

	_, err = op.Result(context.Background())
	require.ErrorContains(t, err, "corrupt document")
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Key: "k"}, nil, nil)
	require.Error(t, err)
	_, err = New(Config{Endpoint: "https://example.com"}, nil, nil)
	require.Error(t, err)
}

func TestBeginAnalyzeRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	client, err := New(Config{Endpoint: "https://example.com", Key: "k"}, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = client.BeginAnalyze(context.Background(), nil)
	require.Error(t, err)
}
