// Command cbioqa runs the cBioPortal question-answering benchmark: it
// generates agent answers, judges them with an LLM, scores navigation links,
// exports database schema context, and can serve any agent behind an
// OpenAI-compatible endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
	"github.com/cbiohub/cbioqa/internal/config"
	"github.com/cbiohub/cbioqa/internal/judge"
)

var (
	configPath string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cbioqa",
	Short: "Benchmark QA agents against cBioPortal data",
	Long: `cbioqa benchmarks question-answering agents that work with cBioPortal
cancer genomics data. It asks agents benchmark questions over OpenAI-compatible
HTTP endpoints or the Gemini API, grades the answers with an LLM judge, scores
portal links hierarchically, and tracks results on a leaderboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// buildAgent constructs the requested agent type from configuration. The
// direct Gemini agent additionally gets the schema context file when one is
// configured.
func buildAgent(ctx context.Context, agentType string) (agent.Agent, error) {
	agentCfg := agent.Config{
		MCPClickHouseURL: cfg.Agents.MCPClickHouseURL,
		NavNullURL:       cfg.Agents.NavNullURL,
		QANullURL:        cfg.Agents.QANullURL,
		MCPNavigatorURL:  cfg.Agents.MCPNavigatorURL,
		GeminiAPIKey:     cfg.Agents.GeminiAPIKey,
		GeminiModel:      cfg.Agents.GeminiModel,
	}

	if agentType == agent.TypeGemini && cfg.Agents.SchemaContextFile != "" {
		data, err := os.ReadFile(cfg.Agents.SchemaContextFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema context file: %w", err)
		}
		agentCfg.SchemaContext = string(data)
	}

	return agent.New(ctx, agentType, agentCfg)
}

// buildJudge constructs the LLM grader from the judge configuration.
func buildJudge(ctx context.Context) (*judge.Judge, error) {
	model, err := agent.NewGeminiModel(ctx,
		cfg.Agents.GeminiAPIKey,
		cfg.Judge.Model,
		"",
		cfg.Judge.Temperature,
		cfg.Judge.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge model: %w", err)
	}
	return judge.New(model), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
