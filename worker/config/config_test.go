package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:9092", cfg.KafkaBrokers)
	assert.Equal(t, "analysis_jobs", cfg.KafkaTopic)
	assert.Equal(t, "analysis-worker-group", cfg.KafkaGroupID)
	assert.Equal(t, 5, cfg.WorkerCount)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, 0.2, cfg.LLMTemperature)
	assert.Equal(t, 4096, cfg.LLMMaxTokens)
	assert.Equal(t, "pdftotext", cfg.Pdftotext)
	assert.Equal(t, "eng", cfg.OCRLang)
}

func TestLoad_MissingOpenAIKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_MissingAnthropicKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "bard")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM_PROVIDER")
}

func TestLoad_WorkerCountFloor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WORKER_COUNT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.WorkerCount)
}
