package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finanalyzer/worker/agent"
	"finanalyzer/worker/extract"
	"finanalyzer/worker/llm"
	"finanalyzer/worker/prompts"
)

// NewFinancialCrew assembles the two-step analysis crew: a financial
// analyst that reads the document through the document-reader tool and
// answers the query, then a verifier that audits the analyst's report.
func NewFinancialCrew(client llm.Client, extractor *extract.Extractor, temperature float64, maxTokens int, logger *zap.Logger) (*agent.Crew, error) {
	documentReader := agent.Tool{
		Name:        "financial_document_reader",
		Description: "Reads and extracts text from a financial document.",
		Handler: func(ctx context.Context, args map[string]string) (string, error) {
			path := args["path"]
			if path == "" {
				return "", fmt.Errorf("missing document path")
			}
			return extractor.Extract(ctx, path)
		},
	}

	analyst := &agent.Agent{
		Role:        "Senior Financial Analyst",
		Goal:        "Analyze the provided financial document and answer the user's query accurately.",
		Backstory:   "An experienced financial analyst specializing in corporate financial statements.",
		Client:      client,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	verifier := &agent.Agent{
		Role:        "Financial Report Verifier",
		Goal:        "Verify the financial analysis for accuracy and consistency.",
		Backstory:   "A meticulous financial auditor.",
		Client:      client,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	analyzeTask := &agent.Task{
		Name:           "analyze_financial_document",
		Description:    prompts.AnalyzeTask(),
		ExpectedOutput: "Structured financial analysis report.",
		Agent:          analyst,
		Tools:          []agent.Tool{documentReader},
	}

	verifyTask := &agent.Task{
		Name:           "verify_financial_analysis",
		Description:    prompts.VerifyTask(),
		ExpectedOutput: "Verified and improved financial analysis.",
		Agent:          verifier,
	}

	return agent.NewCrew(logger, analyzeTask, verifyTask)
}
