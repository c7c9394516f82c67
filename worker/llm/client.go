package llm

import (
	"context"
)

// Client is the minimal inference surface the agent layer needs. Both
// providers are plain HTTP clients; no streaming, the whole completion
// comes back in one piece.
type Client interface {
	GenerateInference(ctx context.Context, messages []Message, opts ...Option) (string, error)
	GetModel() string
}

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // the message content
}

type Settings struct {
	temperature float64
	maxTokens   int
	system      string
}

type Option func(*Settings)

func WithTemperature(temp float64) Option {
	return func(s *Settings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) Option {
	return func(s *Settings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) Option {
	return func(s *Settings) { s.system = prompt }
}

func defaultSettings() Settings {
	return Settings{
		temperature: 0.2,
		maxTokens:   4096,
	}
}
