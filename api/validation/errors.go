package validation

import "errors"

var (
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrInvalidFileType = errors.New("unsupported file type: expected pdf, png or jpeg")
	ErrFileTooLarge    = errors.New("file size exceeds the configured limit")
)
