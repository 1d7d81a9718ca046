package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/dataset"
	"github.com/cbiohub/cbioqa/internal/judge"
	"github.com/cbiohub/cbioqa/internal/report"
)

// agentExpectedColumn maps agent types to the question-file column holding
// their ground truth. Navigation agents are graded against expected links.
var agentExpectedColumn = map[string]string{
	"mcp-clickhouse":      "Navbot Expected Link",
	"mcp-navigator-agent": "Navbot Expected Link",
	"cbio-nav-null":       "Navbot Expected Link",
}

// DefaultExpectedColumn is the ground-truth column for agents without a
// specific mapping.
const DefaultExpectedColumn = "Expected Answer"

// ExpectedColumn returns the ground-truth column for an agent type.
func ExpectedColumn(agentType string) string {
	if col, ok := agentExpectedColumn[agentType]; ok {
		return col
	}
	return DefaultExpectedColumn
}

// BenchmarkOptions configures a full benchmark run.
type BenchmarkOptions struct {
	QuestionsFile   string
	Selection       string
	ResultsDir      string // answers and eval output land under <ResultsDir>/<agent>/<yyyymmdd>/
	LeaderboardPath string
	Delay           time.Duration
	IncludeSQL      bool
	ExpectedColumn  string // overrides the per-agent default when set
}

// RunBenchmark generates answers, judges them against the expected column,
// writes the evaluation CSV, and appends the averages to the leaderboard.
// Returns the average score per criterion.
func (r *Runner) RunBenchmark(ctx context.Context, j *judge.Judge, opts BenchmarkOptions) (map[string]float64, error) {
	dateStr := time.Now().Format("20060102")
	baseDir := filepath.Join(opts.ResultsDir, r.agent.Name(), dateStr)
	answersDir := filepath.Join(baseDir, "answers")
	evalDir := filepath.Join(baseDir, "eval")

	r.log.Info("starting benchmark",
		zap.String("agent", r.agent.Name()),
		zap.String("results_dir", baseDir))

	if _, err := r.RunBatch(ctx, BatchOptions{
		QuestionsFile: opts.QuestionsFile,
		Selection:     opts.Selection,
		OutputDir:     answersDir,
		Delay:         opts.Delay,
		IncludeSQL:    opts.IncludeSQL,
	}); err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	column := opts.ExpectedColumn
	if column == "" {
		column = ExpectedColumn(r.agent.Name())
	}

	averages, err := Evaluate(ctx, j, r.log, opts.QuestionsFile, answersDir, evalDir, column)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	if opts.LeaderboardPath != "" {
		if err := report.UpdateLeaderboard(opts.LeaderboardPath, r.agent.Name(), averages, dateStr); err != nil {
			return nil, fmt.Errorf("failed to update leaderboard: %w", err)
		}
		r.log.Info("leaderboard updated", zap.String("path", opts.LeaderboardPath))
	}

	return averages, nil
}

// Evaluate judges every answered question against the expected column and
// writes the evaluation CSV. Questions without an answer file or an expected
// value are skipped.
func Evaluate(ctx context.Context, j *judge.Judge, log *zap.Logger, questionsFile, answersDir, outputDir, column string) (map[string]float64, error) {
	questions, err := dataset.Load(questionsFile)
	if err != nil {
		return nil, err
	}

	var results []judge.AnswerScores
	for _, q := range questions {
		expected := q.ExpectedAnswer(column)
		if expected == "" {
			continue
		}
		if !report.HasAnswer(answersDir, q.Number) {
			log.Warn("no answer file for question", zap.Int("question", q.Number))
			continue
		}

		raw, err := report.ReadAnswer(answersDir, q.Number)
		if err != nil {
			return nil, err
		}
		output := report.ExtractAnswerContent(raw)

		scores, err := j.EvaluateAnswer(ctx, q.Text, expected, output)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", q.Number, err)
		}
		if scores.Error != "" {
			log.Warn("grader returned malformed verdict", zap.Int("question", q.Number))
		} else {
			log.Info("question judged",
				zap.Int("question", q.Number),
				zap.Int("correctness", scores.CorrectnessScore),
				zap.Int("completeness", scores.CompletenessScore))
		}
		results = append(results, scores)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no questions could be evaluated (column %q, answers in %s)", column, answersDir)
	}

	path, averages, err := report.WriteEvaluationCSV(outputDir, results, time.Now())
	if err != nil {
		return nil, err
	}
	log.Info("evaluation written", zap.String("path", path))

	return averages, nil
}
