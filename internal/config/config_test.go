package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "input/questions.csv", cfg.Questions)
	assert.Equal(t, "LEADERBOARD.md", cfg.Leaderboard)
	assert.Equal(t, "gemini-2.5-pro", cfg.Judge.Model)
	assert.Equal(t, int32(500), cfg.Judge.MaxTokens)
	assert.Equal(t, ":8000", cfg.Serve.Addr)
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
questions: data/benchmark.tsv
results_dir: out
delay: 5s
agents:
  qa_null_url: http://localhost:9100
  gemini_model: gemini-2.5-flash
judge:
  model: gemini-2.5-pro
  max_tokens: 800
`
	path := filepath.Join(t.TempDir(), "cbioqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/benchmark.tsv", cfg.Questions)
	assert.Equal(t, "out", cfg.ResultsDir)
	assert.Equal(t, 5*time.Second, cfg.Delay.Std())
	assert.Equal(t, "http://localhost:9100", cfg.Agents.QANullURL)
	assert.Equal(t, "gemini-2.5-flash", cfg.Agents.GeminiModel)
	assert.Equal(t, int32(800), cfg.Judge.MaxTokens)

	// Unset fields keep their defaults.
	assert.Equal(t, "LEADERBOARD.md", cfg.Leaderboard)
}

func TestEnvOverridesFile(t *testing.T) {
	content := "agents:\n  qa_null_url: http://from-file\n"
	path := filepath.Join(t.TempDir(), "cbioqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("NULL_QA_URL", "http://from-env")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.Agents.QANullURL)
	assert.Equal(t, "test-key", cfg.Agents.GeminiAPIKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
