package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
	"github.com/cbiohub/cbioqa/internal/bench"
)

var (
	batchAgentType  string
	batchQuestions  string
	batchSelection  string
	batchOutputDir  string
	batchDelay      time.Duration
	batchIncludeSQL bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Answer a set of benchmark questions with one agent",
	Long: `Loads questions from the benchmark CSV/TSV, asks the selected agent each
one, and writes one markdown answer file per question. Failed questions are
recorded and do not stop the run.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchAgentType, "agent", "a", agent.TypeGemini, "Agent type")
	batchCmd.Flags().StringVarP(&batchQuestions, "questions", "q", "", "Question file (default: config questions)")
	batchCmd.Flags().StringVar(&batchSelection, "select", "all", "Question selection: 'all', '1-5', or '1,3,7'")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "d", "answers", "Directory for answer files")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", 0, "Pause between questions (e.g. 5s)")
	batchCmd.Flags().BoolVar(&batchIncludeSQL, "include-sql", false, "Append captured SQL queries to answers")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildAgent(ctx, batchAgentType)
	if err != nil {
		return err
	}

	questions := batchQuestions
	if questions == "" {
		questions = cfg.Questions
	}
	delay := batchDelay
	if delay == 0 {
		delay = cfg.Delay.Std()
	}

	runner := bench.NewRunner(a, logger)
	n, err := runner.RunBatch(ctx, bench.BatchOptions{
		QuestionsFile: questions,
		Selection:     batchSelection,
		OutputDir:     batchOutputDir,
		Delay:         delay,
		IncludeSQL:    batchIncludeSQL,
	})
	if err != nil {
		return err
	}

	logger.Info("batch complete",
		zap.Int("questions", n),
		zap.String("output_dir", batchOutputDir))
	return nil
}
