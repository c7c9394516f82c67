package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finanalyzer/api/dto"
	"finanalyzer/api/middleware"
	"finanalyzer/api/validation"
)

// DefaultQuery is used when the client uploads a document without
// asking anything specific.
const DefaultQuery = "Provide a structured analysis of this financial document: key metrics, risks, opportunities and a final summary."

type JobService interface {
	CreateJob(ctx context.Context, traceID string, req *dto.CreateJobRequest) (*dto.AnalyzeResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*dto.StatusResponse, error)
}

type AnalyzeHandler struct {
	service     JobService
	logger      *zap.Logger
	uploadDir   string
	maxFileSize int64
}

func NewAnalyzeHandler(service JobService, logger *zap.Logger, uploadDir string, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:     service,
		logger:      logger,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
	}
}

// Analyze accepts a multipart upload (field "file", optional field
// "query"), stores the document on disk and queues a background
// analysis job.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.handleError(w, "failed to parse multipart form", err, traceID, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.handleError(w, "missing file upload", err, traceID, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.handleError(w, "invalid file", validation.ErrFileTooLarge, traceID, http.StatusBadRequest)
		return
	}

	fileType, err := validation.DetectFileType(file)
	if err != nil {
		h.handleError(w, "invalid file", err, traceID, http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		query = DefaultQuery
	}

	filePath := filepath.Join(h.uploadDir, uuid.New().String()+extensionFor(fileType))

	dst, err := os.Create(filePath)
	if err != nil {
		h.handleError(w, "failed to save file", err, traceID, http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.handleError(w, "failed to write file", err, traceID, http.StatusInternalServerError)
		return
	}

	req := &dto.CreateJobRequest{
		OriginalFilename: filepath.Base(header.Filename),
		FilePath:         filePath,
		Query:            query,
	}

	resp, err := h.service.CreateJob(r.Context(), traceID, req)
	if err != nil {
		h.handleError(w, "failed to create job", err, traceID, http.StatusInternalServerError)
		return
	}

	h.logger.Info("document queued for analysis",
		zap.String("trace_id", traceID),
		zap.String("task_id", resp.TaskID),
		zap.String("filename", header.Filename),
		zap.String("file_type", string(fileType)),
	)

	h.respondJSON(w, http.StatusAccepted, resp)
}

// Status reports the current state of a job. Unknown ids are a 404,
// never a crash; terminal states include the result or error text.
func (h *AnalyzeHandler) Status(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	jobID := strings.TrimPrefix(r.URL.Path, "/status/")
	if jobID == "" || strings.Contains(jobID, "/") {
		h.handleError(w, "task id is required", nil, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetJobStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, dto.ErrJobNotFound) {
			h.handleError(w, "task not found", err, traceID, http.StatusNotFound)
			return
		}
		h.handleError(w, "failed to get job status", err, traceID, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *AnalyzeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Financial Document Analyzer is running",
	})
}

func extensionFor(t validation.FileType) string {
	switch t {
	case validation.FileTypePDF:
		return ".pdf"
	case validation.FileTypePNG:
		return ".png"
	case validation.FileTypeJPEG:
		return ".jpg"
	default:
		return ""
	}
}

func (h *AnalyzeHandler) handleError(w http.ResponseWriter, message string, err error, traceID string, status int) {
	h.logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

func (h *AnalyzeHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
