package dto

import "errors"

var ErrJobNotFound = errors.New("job not found")

type CreateJobRequest struct {
	OriginalFilename string `json:"original_filename"`
	FilePath         string `json:"file_path"`
	Query            string `json:"query"`
}

// AnalyzeResponse is returned by POST /analyze once the job is queued.
type AnalyzeResponse struct {
	Status   string `json:"status"`
	TaskID   string `json:"task_id"`
	FilePath string `json:"file_path"`
	Message  string `json:"message,omitempty"`
}

// StatusResponse is returned by GET /status/{task_id}. Result is set
// only for completed jobs, Error only for failed ones.
type StatusResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
