// Package config loads harness settings from an optional YAML file with
// environment variable overrides. Environment always wins so deployments can
// keep secrets out of the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the QA harness.
type Config struct {
	// Questions is the default question CSV/TSV file.
	Questions string `yaml:"questions"`
	// ResultsDir is where benchmark runs write their output.
	ResultsDir string `yaml:"results_dir"`
	// Leaderboard is the markdown leaderboard path.
	Leaderboard string `yaml:"leaderboard"`

	// DatabaseURL points the schema exporter at the portal database
	// (postgres://, mysql://, or sqlite paths).
	DatabaseURL string `yaml:"database_url"`

	Agents AgentsConfig `yaml:"agents"`
	Judge  JudgeConfig  `yaml:"judge"`
	Serve  ServeConfig  `yaml:"serve"`

	// Delay between questions during batch runs.
	Delay Duration `yaml:"delay"`
}

// Duration parses YAML values like "5s" or "2m" via time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// AgentsConfig holds agent endpoints and credentials.
type AgentsConfig struct {
	MCPClickHouseURL string `yaml:"mcp_clickhouse_url"`
	NavNullURL       string `yaml:"nav_null_url"`
	QANullURL        string `yaml:"qa_null_url"`
	MCPNavigatorURL  string `yaml:"mcp_navigator_url"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	// SchemaContextFile is prepended to direct-Gemini prompts when set.
	SchemaContextFile string `yaml:"schema_context_file"`
}

// JudgeConfig selects the grader model.
type JudgeConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int32   `yaml:"max_tokens"`
}

// ServeConfig configures the OpenAI-compatible serving endpoint.
type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Model string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Questions:   "input/questions.csv",
		ResultsDir:  "results",
		Leaderboard: "LEADERBOARD.md",
		Judge: JudgeConfig{
			Model:       "gemini-2.5-pro",
			Temperature: 0,
			MaxTokens:   500,
		},
		Serve: ServeConfig{
			Addr:  ":8000",
			Model: "cbioqa",
		},
	}
}

// Load reads the config file when path is non-empty, then applies
// environment overrides. A missing file at the default path is not an
// error; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Agents.MCPClickHouseURL, "MCP_CLICKHOUSE_AGENT_URL")
	setFromEnv(&c.Agents.NavNullURL, "NULL_NAV_URL")
	setFromEnv(&c.Agents.QANullURL, "NULL_QA_URL")
	setFromEnv(&c.Agents.MCPNavigatorURL, "CBIOPORTAL_MCP_AGENT_URL")
	setFromEnv(&c.Agents.GeminiAPIKey, "GEMINI_API_KEY")
	setFromEnv(&c.Agents.GeminiModel, "GEMINI_MODEL")
	setFromEnv(&c.DatabaseURL, "CBIOQA_DATABASE_URL")
	setFromEnv(&c.Judge.Model, "CBIOQA_JUDGE_MODEL")
}

func setFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
