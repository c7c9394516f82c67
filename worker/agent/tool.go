package agent

import (
	"context"
	"fmt"
)

// Tool is a named capability a task may declare. Tools run before the
// task's model call and their output is folded into the prompt as
// context. Selection is deterministic: a task always runs the tools it
// declares.
type Tool struct {
	Name        string
	Description string
	Handler     func(ctx context.Context, args map[string]string) (string, error)
}

func (t Tool) run(ctx context.Context, args map[string]string) (string, error) {
	if t.Handler == nil {
		return "", fmt.Errorf("tool %q has no handler", t.Name)
	}
	out, err := t.Handler(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", t.Name, err)
	}
	return out, nil
}

func formatToolResult(name, result string) string {
	return fmt.Sprintf("Tool %s result:\n%s", name, result)
}
