package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/bench"
)

var (
	evalQuestions  string
	evalAnswersDir string
	evalOutputDir  string
	evalColumn     string

	urlQuestions  string
	urlAnswersDir string
	urlOutputDir  string
	urlColumn     string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Judge an existing answers directory",
	Long: `Grades answer files from an earlier batch run against the expected-answer
column and writes an evaluation CSV with average scores.`,
	RunE: runEval,
}

var urlscoreCmd = &cobra.Command{
	Use:   "urlscore",
	Short: "Score portal links in answers against expected links",
	Long: `Extracts cbioportal.org URLs from each answer file and compares them
component by component against the expected links. Partially correct links
earn partial credit; per-question detail trees and a summary TSV are written
to the output directory.`,
	RunE: runURLScore,
}

func init() {
	evalCmd.Flags().StringVarP(&evalQuestions, "questions", "q", "", "Question file (default: config questions)")
	evalCmd.Flags().StringVarP(&evalAnswersDir, "answers-dir", "d", "answers", "Directory with answer files")
	evalCmd.Flags().StringVarP(&evalOutputDir, "output-dir", "o", "evaluation_results", "Directory for the evaluation CSV")
	evalCmd.Flags().StringVar(&evalColumn, "expected-column", bench.DefaultExpectedColumn, "Ground-truth column in the question file")

	urlscoreCmd.Flags().StringVarP(&urlQuestions, "questions", "q", "", "Question file (default: config questions)")
	urlscoreCmd.Flags().StringVarP(&urlAnswersDir, "answers-dir", "d", "answers", "Directory with answer files")
	urlscoreCmd.Flags().StringVarP(&urlOutputDir, "output-dir", "o", "evaluation_results", "Directory for score output")
	urlscoreCmd.Flags().StringVar(&urlColumn, "expected-column", "Navbot Expected Link", "Column holding the expected links")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(urlscoreCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	j, err := buildJudge(ctx)
	if err != nil {
		return err
	}

	questions := evalQuestions
	if questions == "" {
		questions = cfg.Questions
	}

	averages, err := bench.Evaluate(ctx, j, logger, questions, evalAnswersDir, evalOutputDir, evalColumn)
	if err != nil {
		return err
	}

	logger.Info("evaluation complete",
		zap.Float64("correctness", averages["correctness_score"]),
		zap.Float64("completeness", averages["completeness_score"]),
		zap.Float64("conciseness", averages["conciseness_score"]),
		zap.Float64("faithfulness", averages["faithfulness_score"]))
	return nil
}

func runURLScore(cmd *cobra.Command, args []string) error {
	questions := urlQuestions
	if questions == "" {
		questions = cfg.Questions
	}

	result, err := bench.RunURLScoring(logger, questions, urlAnswersDir, urlOutputDir, urlColumn)
	if err != nil {
		return err
	}

	logger.Info("url scoring complete",
		zap.Float64("average", result.Average),
		zap.Int("questions", len(result.Scores)))
	return nil
}
