package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"finanalyzer/worker/llm"
)

type fakeLLM struct {
	response string
	err      error

	prompts []string
}

func (f *fakeLLM) GenerateInference(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) GetModel() string { return "fake-model" }

func tmpl(t *testing.T, text string) *template.Template {
	t.Helper()
	return template.Must(template.New("task").Parse(text))
}

func TestKickoff_RendersInputsIntoPrompt(t *testing.T) {
	client := &fakeLLM{response: "analysis"}
	task := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Read {{.path}} and answer: {{.query}}"),
		Agent:       &Agent{Role: "Analyst", Client: client},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), task)
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), Inputs{"path": "data/q3.pdf", "query": "revenue?"})
	require.NoError(t, err)
	assert.Equal(t, "analysis", out)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "data/q3.pdf")
	assert.Contains(t, client.prompts[0], "revenue?")
}

func TestKickoff_ToolResultFoldedIntoPrompt(t *testing.T) {
	client := &fakeLLM{response: "done"}
	var gotArgs map[string]string
	task := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Analyze the document."),
		Agent:       &Agent{Role: "Analyst", Client: client},
		Tools: []Tool{{
			Name: "reader",
			Handler: func(ctx context.Context, args map[string]string) (string, error) {
				gotArgs = args
				return "Total revenue: $12M", nil
			},
		}},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), task)
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), Inputs{"path": "data/a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "data/a.pdf", gotArgs["path"])
	assert.Contains(t, client.prompts[0], "Tool reader result:")
	assert.Contains(t, client.prompts[0], "Total revenue: $12M")
}

func TestKickoff_SequentialTasksChainOutput(t *testing.T) {
	analystClient := &fakeLLM{response: "draft analysis"}
	verifierClient := &fakeLLM{response: "verified analysis"}

	analyze := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Analyze."),
		Agent:       &Agent{Role: "Analyst", Client: analystClient},
	}
	verify := &Task{
		Name:           "verify",
		Description:    tmpl(t, "Verify the previous analysis."),
		ExpectedOutput: "Verified and improved financial analysis.",
		Agent:          &Agent{Role: "Verifier", Client: verifierClient},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), analyze, verify)
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), Inputs{})
	require.NoError(t, err)

	// Final output is the verifier's, and the verifier saw the draft.
	assert.Equal(t, "verified analysis", out)
	require.Len(t, verifierClient.prompts, 1)
	assert.Contains(t, verifierClient.prompts[0], "Previous task output:\ndraft analysis")
	assert.Contains(t, verifierClient.prompts[0], "Expected output: Verified and improved financial analysis.")
}

func TestKickoff_ToolErrorFailsRun(t *testing.T) {
	client := &fakeLLM{response: "never reached"}
	task := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Analyze."),
		Agent:       &Agent{Role: "Analyst", Client: client},
		Tools: []Tool{{
			Name: "reader",
			Handler: func(ctx context.Context, args map[string]string) (string, error) {
				return "", errors.New("file not found")
			},
		}},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), task)
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), Inputs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "reader"`)
	assert.Empty(t, client.prompts, "model must not be called when a tool fails")
}

func TestKickoff_LLMErrorFailsRun(t *testing.T) {
	client := &fakeLLM{err: fmt.Errorf("rate limited")}
	task := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Analyze."),
		Agent:       &Agent{Role: "Analyst", Client: client},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), task)
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), Inputs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestKickoff_EmptyAnswerIsError(t *testing.T) {
	client := &fakeLLM{response: "   "}
	task := &Task{
		Name:        "analyze",
		Description: tmpl(t, "Analyze."),
		Agent:       &Agent{Role: "Analyst", Client: client},
	}

	crew, err := NewCrew(zaptest.NewLogger(t), task)
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), Inputs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty answer")
}

func TestNewCrew_Validation(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewCrew(logger)
	assert.Error(t, err, "empty crew must be rejected")

	_, err = NewCrew(logger, &Task{Name: "bad", Description: tmpl(t, "x")})
	assert.Error(t, err, "task without agent must be rejected")

	_, err = NewCrew(logger, &Task{Name: "bad", Agent: &Agent{Role: "A", Client: &fakeLLM{}}})
	assert.Error(t, err, "task without description must be rejected")
}

func TestAgentSystemPrompt(t *testing.T) {
	a := &Agent{
		Role:      "Senior Financial Analyst",
		Goal:      "Answer accurately.",
		Backstory: "An experienced analyst.",
	}

	sys := a.systemPrompt()
	assert.Contains(t, sys, "You are a Senior Financial Analyst.")
	assert.Contains(t, sys, "Your goal: Answer accurately.")
	assert.Contains(t, sys, "Backstory: An experienced analyst.")
}
