// Package bench orchestrates benchmark runs: generating answers for a
// question set, judging them, scoring reproducibility across repeated runs,
// and recording results.
package bench

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
	"github.com/cbiohub/cbioqa/internal/dataset"
	"github.com/cbiohub/cbioqa/internal/report"
)

// BatchOptions configures one answer-generation pass.
type BatchOptions struct {
	QuestionsFile string
	Selection     string // "all", "1-5", "1,3,7"
	OutputDir     string
	Delay         time.Duration // pause between questions
	IncludeSQL    bool          // append captured SQL queries to answers
}

// Runner generates answers with a single agent.
type Runner struct {
	agent agent.Agent
	log   *zap.Logger
}

func NewRunner(a agent.Agent, log *zap.Logger) *Runner {
	return &Runner{agent: a, log: log}
}

// RunBatch asks the agent every selected question and writes one answer file
// per question. A failed question is recorded in its answer file and does
// not stop the batch. Returns the number of questions processed.
func (r *Runner) RunBatch(ctx context.Context, opts BatchOptions) (int, error) {
	selected, err := dataset.ParseSelection(opts.Selection, opts.QuestionsFile)
	if err != nil {
		return 0, fmt.Errorf("invalid question selection: %w", err)
	}

	questions, err := dataset.LoadSelected(opts.QuestionsFile, selected)
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		r.log.Warn("no questions matched the selection",
			zap.String("selection", opts.Selection))
		return 0, nil
	}

	r.log.Info("starting batch",
		zap.String("agent", r.agent.Name()),
		zap.Int("questions", len(questions)),
		zap.String("output_dir", opts.OutputDir))

	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		answer := r.askOne(ctx, q, opts.IncludeSQL)

		path, err := report.WriteAnswer(opts.OutputDir, q.Number, q.Type, q.Text, answer)
		if err != nil {
			return i, err
		}
		r.log.Info("question answered",
			zap.Int("question", q.Number),
			zap.String("file", path))

		if opts.Delay > 0 && i < len(questions)-1 {
			select {
			case <-ctx.Done():
				return i + 1, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	return len(questions), nil
}

func (r *Runner) askOne(ctx context.Context, q dataset.Question, includeSQL bool) string {
	ans, err := r.agent.Ask(ctx, q.Text)
	if err != nil {
		r.log.Error("agent request failed",
			zap.Int("question", q.Number),
			zap.Error(err))
		return fmt.Sprintf("Error: %v", err)
	}

	answer := ans.Text
	if includeSQL && ans.Info.SQLQueries != "" {
		answer += "\n\n" + ans.Info.SQLQueries
	}
	if ans.Info.ResponseSecs > 0 {
		answer += fmt.Sprintf("\n\n*Response time: %.2fs*", ans.Info.ResponseSecs)
	}
	return answer
}
