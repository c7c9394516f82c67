// Package prompts holds the task prompt templates for the financial
// analysis crew as embedded markdown files, rendered with the per-job
// inputs (document path and user query).
package prompts

import (
	"embed"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.md"))

// AnalyzeTask is the analyst's task description. Inputs: path, query.
func AnalyzeTask() *template.Template {
	return templates.Lookup("analyze_task.md")
}

// VerifyTask is the verifier's task description. It takes no inputs;
// the analyst's output reaches it as previous-task context.
func VerifyTask() *template.Template {
	return templates.Lookup("verify_task.md")
}
