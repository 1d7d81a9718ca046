package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/bench"
)

var (
	stepsRubrics    string
	stepsAnswersDir string
	stepsOutputDir  string
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Grade the SQL queries in answers against expected reasoning steps",
	Long: `Compares the SQL queries each answer file contains against the expected
steps from a rubrics JSON file (question number, question, and brief/detailed
answer instructions). The grader reports missing and extra steps, a
step-to-query mapping, and 1-3 scores per question.`,
	RunE: runSteps,
}

func init() {
	stepsCmd.Flags().StringVar(&stepsRubrics, "rubrics", "", "Rubrics JSON file with expected steps (required)")
	stepsCmd.Flags().StringVarP(&stepsAnswersDir, "answers-dir", "d", "answers", "Directory with answer files")
	stepsCmd.Flags().StringVarP(&stepsOutputDir, "output-dir", "o", "evaluation_results", "Directory for grading output")
	_ = stepsCmd.MarkFlagRequired("rubrics")

	rootCmd.AddCommand(stepsCmd)
}

func runSteps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	j, err := buildJudge(ctx)
	if err != nil {
		return err
	}

	resultsPath, averages, err := bench.RunStepsEval(ctx, j, logger,
		stepsRubrics, stepsAnswersDir, stepsOutputDir)
	if err != nil {
		return err
	}

	logger.Info("steps grading complete",
		zap.String("results", resultsPath),
		zap.Float64("brief_completeness", averages["brief_completeness"]),
		zap.Float64("brief_correctness", averages["brief_correctness"]),
		zap.Float64("detailed_completeness", averages["detailed_completeness"]),
		zap.Float64("detailed_correctness", averages["detailed_correctness"]))
	return nil
}
