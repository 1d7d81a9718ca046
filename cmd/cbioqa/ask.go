package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
)

var askAgentType string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question to an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askAgentType, "agent", "a", agent.TypeGemini,
		fmt.Sprintf("Agent type (%v)", agent.Types()))

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildAgent(ctx, askAgentType)
	if err != nil {
		return err
	}

	answer, err := a.Ask(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if answer.Info.Model != "" || answer.Info.ResponseSecs > 0 {
		logger.Info("answer metadata",
			zap.String("agent", answer.Info.AgentType),
			zap.String("model", answer.Info.Model),
			zap.Float64("response_seconds", answer.Info.ResponseSecs))
	}
	return nil
}
