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

// ReproducibilityOptions configures a repeated-run consistency check.
type ReproducibilityOptions struct {
	QuestionsFile string
	Selection     string
	OutputDir     string // run_<i>/ answer dirs and the summary CSV land here
	Runs          int
	Delay         time.Duration
}

// ReproducibilityResult carries the per-question and overall consistency of
// repeated runs, both in [0, 1].
type ReproducibilityResult struct {
	PerQuestion map[int]float64
	Overall     float64
	SummaryPath string
}

// RunReproducibility answers the question set Runs times, then grades every
// pair of runs for semantic consistency per question. The pair score maps
// the 1-3 consistency grade onto [0, 1]; a question's score is the mean over
// all pairs and the overall score is the mean over questions.
func (r *Runner) RunReproducibility(ctx context.Context, j *judge.Judge, opts ReproducibilityOptions) (*ReproducibilityResult, error) {
	if opts.Runs < 2 {
		return nil, fmt.Errorf("reproducibility needs at least 2 runs, got %d", opts.Runs)
	}

	runDirs := make([]string, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		runDirs[i] = filepath.Join(opts.OutputDir, fmt.Sprintf("run_%d", i+1))

		r.log.Info("reproducibility run",
			zap.Int("run", i+1),
			zap.Int("total_runs", opts.Runs))

		if _, err := r.RunBatch(ctx, BatchOptions{
			QuestionsFile: opts.QuestionsFile,
			Selection:     opts.Selection,
			OutputDir:     runDirs[i],
			Delay:         opts.Delay,
		}); err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
	}

	return r.scoreRuns(ctx, j, opts, runDirs)
}

// ScoreExistingRuns grades run_<i>/ directories produced earlier, without
// generating new answers.
func (r *Runner) ScoreExistingRuns(ctx context.Context, j *judge.Judge, opts ReproducibilityOptions) (*ReproducibilityResult, error) {
	runDirs := make([]string, 0, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		runDirs = append(runDirs, filepath.Join(opts.OutputDir, fmt.Sprintf("run_%d", i+1)))
	}
	return r.scoreRuns(ctx, j, opts, runDirs)
}

func (r *Runner) scoreRuns(ctx context.Context, j *judge.Judge, opts ReproducibilityOptions, runDirs []string) (*ReproducibilityResult, error) {
	selected, err := dataset.ParseSelection(opts.Selection, opts.QuestionsFile)
	if err != nil {
		return nil, err
	}
	questions, err := dataset.LoadSelected(opts.QuestionsFile, selected)
	if err != nil {
		return nil, err
	}

	perQuestion := make(map[int]float64)
	for _, q := range questions {
		answers := make([]string, 0, len(runDirs))
		for _, dir := range runDirs {
			if !report.HasAnswer(dir, q.Number) {
				continue
			}
			text, err := report.ReadAnswer(dir, q.Number)
			if err != nil {
				return nil, err
			}
			answers = append(answers, report.ExtractAnswerContent(text))
		}
		if len(answers) < 2 {
			r.log.Warn("not enough answers for pairwise comparison",
				zap.Int("question", q.Number),
				zap.Int("answers", len(answers)))
			continue
		}

		sum := 0.0
		pairs := 0
		for a := 0; a < len(answers); a++ {
			for b := a + 1; b < len(answers); b++ {
				verdict, err := j.EvaluateConsistency(ctx, q.Text, answers[a], answers[b])
				if err != nil {
					return nil, fmt.Errorf("question %d runs %d/%d: %w", q.Number, a+1, b+1, err)
				}
				sum += normalizeConsistency(verdict.ConsistencyScore)
				pairs++
			}
		}

		score := sum / float64(pairs)
		perQuestion[q.Number] = score
		r.log.Info("question consistency",
			zap.Int("question", q.Number),
			zap.Float64("score", score))
	}

	if len(perQuestion) == 0 {
		return nil, fmt.Errorf("no questions had answers in at least 2 runs")
	}

	overall := 0.0
	for _, s := range perQuestion {
		overall += s
	}
	overall /= float64(len(perQuestion))

	path, err := report.WriteReproducibilityCSV(opts.OutputDir, perQuestion, overall, time.Now())
	if err != nil {
		return nil, err
	}

	r.log.Info("reproducibility scored",
		zap.Float64("overall", overall),
		zap.String("summary", path))

	return &ReproducibilityResult{
		PerQuestion: perQuestion,
		Overall:     overall,
		SummaryPath: path,
	}, nil
}

// normalizeConsistency maps the 1-3 grade onto [0, 1].
func normalizeConsistency(score int) float64 {
	if score < 1 {
		return 0
	}
	if score > 3 {
		return 1
	}
	return float64(score-1) / 2
}
