package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
	"github.com/cbiohub/cbioqa/internal/bench"
)

var (
	benchAgentType  string
	benchQuestions  string
	benchSelection  string
	benchColumn     string
	benchDelay      time.Duration
	benchIncludeSQL bool

	reproRuns      int
	reproOutputDir string
	reproScoreOnly bool
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run the full benchmark: answer, judge, and update the leaderboard",
	Long: `Generates answers for every selected question, grades them with the LLM
judge against the expected-answer column, writes an evaluation CSV under
results/<agent>/<date>/, and appends the averages to the leaderboard.`,
	RunE: runBenchmark,
}

var reproducibilityCmd = &cobra.Command{
	Use:   "reproducibility",
	Short: "Measure answer consistency across repeated runs",
	Long: `Answers the question set several times, then grades every pair of runs for
semantic consistency per question. Scores land in run_<i>/ directories and a
summary CSV.`,
	RunE: runReproducibility,
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchAgentType, "agent", "a", agent.TypeMCPClickHouse, "Agent type")
	benchmarkCmd.Flags().StringVarP(&benchQuestions, "questions", "q", "", "Question file (default: config questions)")
	benchmarkCmd.Flags().StringVar(&benchSelection, "select", "all", "Question selection")
	benchmarkCmd.Flags().StringVar(&benchColumn, "expected-column", "", "Ground-truth column (default: per-agent mapping)")
	benchmarkCmd.Flags().DurationVar(&benchDelay, "delay", 0, "Pause between questions")
	benchmarkCmd.Flags().BoolVar(&benchIncludeSQL, "include-sql", false, "Append captured SQL queries to answers")

	reproducibilityCmd.Flags().StringVarP(&benchAgentType, "agent", "a", agent.TypeMCPClickHouse, "Agent type")
	reproducibilityCmd.Flags().StringVarP(&benchQuestions, "questions", "q", "", "Question file (default: config questions)")
	reproducibilityCmd.Flags().StringVar(&benchSelection, "select", "all", "Question selection")
	reproducibilityCmd.Flags().IntVarP(&reproRuns, "runs", "n", 3, "Number of repeated runs")
	reproducibilityCmd.Flags().StringVarP(&reproOutputDir, "output-dir", "d", "reproducibility", "Directory for run output")
	reproducibilityCmd.Flags().BoolVar(&reproScoreOnly, "score-only", false, "Score existing run_<i>/ directories without generating answers")

	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(reproducibilityCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildAgent(ctx, benchAgentType)
	if err != nil {
		return err
	}
	j, err := buildJudge(ctx)
	if err != nil {
		return err
	}

	questions := benchQuestions
	if questions == "" {
		questions = cfg.Questions
	}
	delay := benchDelay
	if delay == 0 {
		delay = cfg.Delay.Std()
	}

	runner := bench.NewRunner(a, logger)
	averages, err := runner.RunBenchmark(ctx, j, bench.BenchmarkOptions{
		QuestionsFile:   questions,
		Selection:       benchSelection,
		ResultsDir:      cfg.ResultsDir,
		LeaderboardPath: cfg.Leaderboard,
		Delay:           delay,
		IncludeSQL:      benchIncludeSQL,
		ExpectedColumn:  benchColumn,
	})
	if err != nil {
		return err
	}

	logger.Info("benchmark complete",
		zap.Float64("correctness", averages["correctness_score"]),
		zap.Float64("completeness", averages["completeness_score"]),
		zap.Float64("conciseness", averages["conciseness_score"]),
		zap.Float64("faithfulness", averages["faithfulness_score"]))
	return nil
}

func runReproducibility(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildAgent(ctx, benchAgentType)
	if err != nil {
		return err
	}
	j, err := buildJudge(ctx)
	if err != nil {
		return err
	}

	questions := benchQuestions
	if questions == "" {
		questions = cfg.Questions
	}

	runner := bench.NewRunner(a, logger)
	opts := bench.ReproducibilityOptions{
		QuestionsFile: questions,
		Selection:     benchSelection,
		OutputDir:     reproOutputDir,
		Runs:          reproRuns,
		Delay:         cfg.Delay.Std(),
	}

	var result *bench.ReproducibilityResult
	if reproScoreOnly {
		result, err = runner.ScoreExistingRuns(ctx, j, opts)
	} else {
		result, err = runner.RunReproducibility(ctx, j, opts)
	}
	if err != nil {
		return err
	}

	logger.Info("reproducibility complete",
		zap.Float64("overall", result.Overall),
		zap.String("summary", result.SummaryPath))
	return nil
}
