package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golisting/app"
	"golisting/domain/core"
	"golisting/internal"
	appErrors "golisting/internal/errors"
	"golisting/internal/normalizer"
)

var logger = internal.NewLogger("API")

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": ServiceName,
		"version": Version,
		"endpoints": map[string]string{
			"/generate":  "POST - Upload XLSX files and generate content",
			"/normalize": "POST - Upload XLSX files and return the normalized rendering",
			"/health":    "GET - Health check",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "healthy",
		"timestamp":          time.Now().Format(time.RFC3339),
		"api_key_configured": s.hasAPIKey,
	})
}

// handleGenerate accepts the two exports plus form fields, runs research and
// the single agent, and returns the listing JSON verbatim.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.hasAPIKey {
		writeError(w, http.StatusServiceUnavailable, "LLM API key is not configured")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	scratch, err := s.scratchDir()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "creating upload dir: "+err.Error())
		return
	}
	defer os.RemoveAll(scratch)

	sellerElfPath, err := saveUpload(r, "seller_elf", scratch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sifPath, err := saveUpload(r, "sif", scratch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topN := 50
	if raw := r.FormValue("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		topN = parsed
	}

	req := app.GenerateRequest{
		SellerElfPath: sellerElfPath,
		SifPath:       sifPath,
		BrandName:     r.FormValue("brand_name"),
		ProductType:   r.FormValue("product_type"),
		TopN:          topN,
		Model:         r.FormValue("model"),
	}

	logger.Info("Generate request: brand=%q product=%q top_n=%d", req.BrandName, req.ProductType, req.TopN)

	var result interface{}
	var genErr error
	if r.FormValue("mode") == "orchestrated" {
		result, genErr = s.generator.GenerateOrchestrated(r.Context(), req)
	} else {
		result, genErr = s.generator.GenerateSingle(r.Context(), req)
	}
	if genErr != nil {
		writePipelineError(w, genErr)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleNormalize runs the normalization pipeline alone over the uploaded
// files and returns the combined rendering.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	format, err := normalizer.ParseFormat(valueOrDefault(r.FormValue("format"), string(normalizer.FormatJSON)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if format == normalizer.FormatRecords {
		format = normalizer.FormatJSON
	}

	maxRows := 0
	if raw := r.FormValue("max_rows"); raw != "" {
		if maxRows, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "max_rows must be an integer")
			return
		}
	}

	scratch, err := s.scratchDir()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "creating upload dir: "+err.Error())
		return
	}
	defer os.RemoveAll(scratch)

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required in the 'files' field")
		return
	}

	var sources []normalizer.Source
	for _, header := range r.MultipartForm.File["files"] {
		path, err := saveUploadHeader(header, scratch)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sources = append(sources, normalizer.Source{
			Path:    path,
			Profile: r.FormValue("profile"),
			Label:   header.Filename,
		})
	}

	result, err := normalizer.New().ProcessMultiple(sources, format, maxRows)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	contentType := "application/json"
	if format == normalizer.FormatMarkdown {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, result.Output)
}

func (s *Server) scratchDir() (string, error) {
	return os.MkdirTemp(s.config.Server.UploadDir, "golisting-upload-*")
}

func saveUpload(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", appErrors.InvalidInput(field + " file is required")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		return "", appErrors.InvalidInput(field + " file must be an XLSX or CSV file")
	}

	path := filepath.Join(dir, field+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}

func saveUploadHeader(header *multipart.FileHeader, dir string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	path := filepath.Join(dir, filepath.Base(header.Filename))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// writePipelineError maps the error taxonomy onto status codes: bad input
// 400, missing source 404, empty source or failed detection 422, model
// failures 502, the rest 500.
func writePipelineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case appErrors.GetCode(err) == appErrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrSourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrEmptySource),
		errors.Is(err, core.ErrUnsupportedSource),
		core.IsProfileError(err):
		status = http.StatusUnprocessableEntity
	case core.IsGenerationError(err),
		appErrors.GetCode(err) == appErrors.CodeExternalService:
		status = http.StatusBadGateway
	}

	logger.Warn("Request failed (%d): %v", status, err)
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
