package api

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/extract"
)

// handleExtract serves POST /v1/extract. It accepts a multipart form with a
// pdf_file part, one or more formats[] values, and an optional session_id
// for live progress. On success it returns
// {"success": true, "results": {...}, "filename": "..."}.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		writeError(s.logger, w, http.StatusServiceUnavailable, "extraction is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes()); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "no file provided")
		return
	}
	defer closeQuietly(file, s.logger)

	document, err := io.ReadAll(file)
	if err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "failed to read upload")
		return
	}

	formats := r.Form["formats[]"]
	if len(formats) == 0 {
		formats = r.Form["formats"]
	}

	resp, err := s.orchestrator.Extract(r.Context(), extract.Request{
		SessionID: r.FormValue("session_id"),
		Filename:  header.Filename,
		Formats:   formats,
		Document:  document,
	})
	if err != nil {
		s.writeExtractError(w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success":  true,
		"results":  resp.Results,
		"filename": resp.Filename,
	})
}

func (s *Server) writeExtractError(w http.ResponseWriter, err error) {
	var verr *extract.ValidationError
	if errors.As(err, &verr) {
		writeError(s.logger, w, http.StatusBadRequest, verr.Error())
		return
	}
	var rerr *extract.RemoteServiceError
	if errors.As(err, &rerr) {
		s.logger.Error("remote analysis failed", zap.Error(err))
		writeError(s.logger, w, http.StatusBadGateway, "document analysis service failed")
		return
	}
	s.logger.Error("extraction failed", zap.Error(err))
	writeError(s.logger, w, http.StatusInternalServerError, err.Error())
}

func closeQuietly(c io.Closer, logger *zap.Logger) {
	if err := c.Close(); err != nil && logger != nil {
		logger.Warn("close failed", zap.Error(err))
	}
}
