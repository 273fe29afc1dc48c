package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hazkg/hazkg"
)

type handler struct {
	engine *hazkg.Engine
}

func newHandler(e *hazkg.Engine) *handler {
	return &handler{engine: e}
}

// POST /documents/ingest
// Accepts multipart file upload or JSON with a file path, runs the
// seven-stage Document-to-Graph pipeline over it.
func (h *handler) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err == nil { // 100MB max
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			safeName := filepath.Base(header.Filename)
			tmpPath := filepath.Join(os.TempDir(), safeName)
			dst, err := os.Create(tmpPath)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to process file")
				slog.Error("creating temp file", "error", err)
				return
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				writeError(w, http.StatusInternalServerError, "failed to save file")
				slog.Error("saving uploaded file", "error", err)
				return
			}
			dst.Close()
			defer os.Remove(tmpPath)

			h.runDocumentIngest(ctx, w, tmpPath)
			return
		}
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusBadRequest, "path must be an existing file")
		return
	}

	h.runDocumentIngest(ctx, w, absPath)
}

func (h *handler) runDocumentIngest(ctx context.Context, w http.ResponseWriter, path string) {
	result, err := h.engine.RunDocumentIngest(ctx, path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "document ingest failed")
		slog.Error("document ingest error", "path", path, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /ontology/ingest
func (h *handler) handleIngestOntology(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	var req struct {
		Dir string `json:"dir,omitempty"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.engine.RunOntologyIngest(ctx, req.Dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ontology ingest failed")
		slog.Error("ontology ingest error", "dir", req.Dir, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
