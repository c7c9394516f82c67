package agent

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

// Inputs are the per-job values interpolated into task descriptions
// and passed to tools.
type Inputs map[string]string

// Task is one step of a crew run. The description template is rendered
// with the kickoff inputs; declared tools execute first and their
// results are appended to the prompt.
type Task struct {
	Name           string
	Description    *template.Template
	ExpectedOutput string
	Agent          *Agent
	Tools          []Tool
}

// Crew executes its tasks sequentially. Each task sees the previous
// task's output as context; the last task's output is the crew result.
type Crew struct {
	tasks  []*Task
	logger *zap.Logger
}

func NewCrew(logger *zap.Logger, tasks ...*Task) (*Crew, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("crew needs at least one task")
	}
	for _, t := range tasks {
		if t.Agent == nil || t.Agent.Client == nil {
			return nil, fmt.Errorf("task %q has no agent with an LLM client", t.Name)
		}
		if t.Description == nil {
			return nil, fmt.Errorf("task %q has no description template", t.Name)
		}
	}
	return &Crew{tasks: tasks, logger: logger}, nil
}

// Kickoff runs the crew once for a single job. There is no retry and
// no partial result: the first failing step fails the run.
func (c *Crew) Kickoff(ctx context.Context, inputs Inputs) (string, error) {
	var previous string

	for _, task := range c.tasks {
		start := time.Now()

		prompt, err := c.buildPrompt(ctx, task, inputs, previous)
		if err != nil {
			return "", fmt.Errorf("task %q: %w", task.Name, err)
		}

		out, err := task.Agent.generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("task %q: %w", task.Name, err)
		}

		c.logger.Info("task finished",
			zap.String("task", task.Name),
			zap.String("agent", task.Agent.Role),
			zap.String("model", task.Agent.Client.GetModel()),
			zap.Duration("duration", time.Since(start)),
		)

		previous = out
	}

	return previous, nil
}

func (c *Crew) buildPrompt(ctx context.Context, task *Task, inputs Inputs, previous string) (string, error) {
	var buf bytes.Buffer
	if err := task.Description.Execute(&buf, inputs); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}

	var b strings.Builder
	b.WriteString(buf.String())

	for _, tool := range task.Tools {
		result, err := tool.run(ctx, inputs)
		if err != nil {
			return "", err
		}
		b.WriteString("\n\n")
		b.WriteString(formatToolResult(tool.Name, result))
	}

	if previous != "" {
		b.WriteString("\n\nPrevious task output:\n")
		b.WriteString(previous)
	}

	if task.ExpectedOutput != "" {
		b.WriteString("\n\nExpected output: ")
		b.WriteString(task.ExpectedOutput)
	}

	return b.String(), nil
}
