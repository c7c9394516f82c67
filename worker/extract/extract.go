// Package extract turns an uploaded document into plain text for the
// analysis crew. PDFs go through pdftotext; PNG/JPEG scans are
// preprocessed and OCRed with tesseract. Both binaries are external
// and stubbed in tests through the Runner interface.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	Pdftotext string // binary name or absolute path; empty -> "pdftotext"
	Tesseract string // binary name or absolute path; empty -> "tesseract"
	Lang      string // tesseract language; empty -> "eng"
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// NewWithRunner is used by tests to substitute the exec layer.
func NewWithRunner(cfg Config, runner Runner, logger *zap.Logger) *Extractor {
	e := New(cfg, logger)
	e.runner = runner
	return e
}

// Extract reads the document at path and returns its text. An
// unreadable or text-free document is an error; the processor records
// it as a failed job rather than analyzing nothing.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found at %s: %w", path, err)
	}

	var text string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = e.pdfToText(ctx, path)
	case ".png", ".jpg", ".jpeg":
		text, err = e.imageToText(ctx, path)
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	text = normalize(text)
	if text == "" {
		return "", fmt.Errorf("no readable text found in %s", filepath.Base(path))
	}
	return text, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

func (e *Extractor) imageToText(ctx context.Context, path string) (string, error) {
	prepared, cleanup, err := prepareScan(path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, prepared, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// normalize collapses repeated blank lines and trims the result, the
// same cleanup the document reader applied before prompting.
func normalize(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
