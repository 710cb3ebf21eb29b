// Package api exposes the screening engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fmuoria/ats-filter/internal/export"
	"github.com/fmuoria/ats-filter/internal/ingestion"
	"github.com/fmuoria/ats-filter/internal/models"
	"github.com/fmuoria/ats-filter/internal/screener"
)

// maxUploadBytes caps a single multipart upload request.
const maxUploadBytes = 32 << 20

// Server handles HTTP requests.
type Server struct {
	screener *screener.Screener
	files    *ingestion.FileHandler
	logger   *zap.Logger
}

// NewServer creates a new API server.
func NewServer(s *screener.Screener, files *ingestion.FileHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{screener: s, files: files, logger: logger}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /filter", s.handleFilter)
	mux.HandleFunc("POST /export", s.handleExportCSV)
	mux.HandleFunc("POST /export/xlsx", s.handleExportExcel)
	mux.HandleFunc("POST /upload_jd", s.handleUploadJD)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("GET /files/{name}", s.handleFile)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "ats-filter",
		"endpoints": map[string]string{
			"POST /upload":      "Upload candidate documents",
			"POST /filter":      "Filter stored candidates against a requirement set",
			"POST /export":      "Export filter results as CSV",
			"POST /export/xlsx": "Export filter results as Excel",
			"POST /upload_jd":   "Parse a job description into a requirement set",
			"POST /compare":     "Score selected candidates side by side",
			"POST /clear":       "Remove all stored candidates",
			"GET /files/{name}": "Download an original uploaded document",
			"GET /health":       "Health check",
		},
	})
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"candidates": s.screener.Store().Len(),
	})
}

// handleUpload ingests a batch of candidate documents. Each "files" part
// carries the original document bytes; a parallel "texts" value carries the
// extracted plain text for the part at the same index. Parts without a
// matching text are treated as plain-text documents.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	texts := r.MultipartForm.Value["texts"]

	docs := make([]screener.Document, 0, len(headers))
	for i, header := range headers {
		if !supportedExtension(header.Filename) {
			s.logger.Warn("skipping unsupported file type", zap.String("filename", header.Filename))
			continue
		}

		file, err := header.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to open uploaded file %s: %v", header.Filename, err))
			return
		}
		raw, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file %s: %v", header.Filename, err))
			return
		}

		text := string(raw)
		if i < len(texts) && texts[i] != "" {
			text = texts[i]
		}
		docs = append(docs, screener.Document{Filename: header.Filename, Text: text, Raw: raw})
	}
	if len(docs) == 0 {
		s.respondError(w, http.StatusBadRequest, "no supported files uploaded")
		return
	}

	profiles, err := s.screener.Ingest(r.Context(), docs)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"ingested":   len(profiles),
		"candidates": profiles,
	})
}

// handleFilter scores all stored candidates against the requirement set in
// the request body.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequirement(w, r.Body)
	if !ok {
		return
	}

	views, err := s.screener.Filter(req)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.attachFileURLs(views)

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(views),
		"candidates": views,
	})
}

// handleExportCSV runs a filter and streams the result as a CSV attachment.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequirement(w, r.Body)
	if !ok {
		return
	}

	views, err := s.screener.Filter(req)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.CSVFilename(time.Now())))
	if err := export.WriteCSV(w, views); err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
	}
}

// handleExportExcel runs a filter and streams the result as an Excel
// attachment.
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequirement(w, r.Body)
	if !ok {
		return
	}

	views, err := s.screener.Filter(req)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ExcelFilename(time.Now())))
	if err := export.WriteExcel(w, views, req); err != nil {
		s.logger.Error("excel export failed", zap.Error(err))
	}
}

// handleUploadJD parses job description text into an editable requirement
// set.
func (s *Server) handleUploadJD(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	req := s.screener.ParseJobDescription(body.Text)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"requirement": req,
	})
}

// handleCompare scores the named candidates only, in the requested order.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs         []string               `json:"ids"`
		Requirement *models.RequirementSet `json:"requirement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.Requirement == nil {
		s.respondError(w, http.StatusBadRequest, "requirement is required")
		return
	}

	views, err := s.screener.Compare(body.IDs, body.Requirement)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.attachFileURLs(views)

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(views),
		"candidates": views,
	})
}

// handleClear removes all stored candidates and their documents.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.screener.Clear(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleFile serves back an original uploaded document.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	file, err := s.files.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, file); err != nil {
		s.logger.Error("file download failed", zap.String("name", name), zap.Error(err))
	}
}

// supportedExtension reports whether the uploaded filename carries a
// document type the engine accepts.
func supportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".txt", ".doc", ".docx":
		return true
	}
	return false
}

// decodeRequirement reads a requirement set from the request body, writing
// the error response itself on failure.
func (s *Server) decodeRequirement(w http.ResponseWriter, body io.Reader) (*models.RequirementSet, bool) {
	var req models.RequirementSet
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}
	return &req, true
}

// attachFileURLs fills in the download link for candidates whose original
// document was stored.
func (s *Server) attachFileURLs(views []models.CandidateView) {
	if s.files == nil {
		return
	}
	for i := range views {
		views[i].FileURL = "/files/" + s.files.StoredName(views[i].ID, views[i].Filename)
	}
}

// respondEngineError maps engine errors to HTTP status codes.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	var invalid *models.InvalidRequirementError
	switch {
	case errors.As(err, &invalid):
		s.respondError(w, http.StatusBadRequest, invalid.Error())
	case errors.Is(err, screener.ErrInsufficientCandidates):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
