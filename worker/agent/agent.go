package agent

import (
	"context"
	"fmt"
	"strings"

	"finanalyzer/worker/llm"
)

// Agent is a role-scoped wrapper around one LLM client. The role, goal
// and backstory become the system prompt for every task the agent runs.
type Agent struct {
	Role      string
	Goal      string
	Backstory string

	Client      llm.Client
	Temperature float64
	MaxTokens   int
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s.", a.Role)
	if a.Goal != "" {
		fmt.Fprintf(&b, "\n\nYour goal: %s", a.Goal)
	}
	if a.Backstory != "" {
		fmt.Fprintf(&b, "\n\nBackstory: %s", a.Backstory)
	}
	return b.String()
}

func (a *Agent) generate(ctx context.Context, prompt string) (string, error) {
	messages := []llm.Message{
		{Role: "user", Content: prompt},
	}

	out, err := a.Client.GenerateInference(ctx, messages,
		llm.WithSystemPrompt(a.systemPrompt()),
		llm.WithTemperature(a.Temperature),
		llm.WithMaxTokens(a.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("agent %q inference: %w", a.Role, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("agent %q returned an empty answer", a.Role)
	}
	return out, nil
}
