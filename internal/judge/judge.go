// Package judge scores agent answers with an LLM. It grades single answers
// on four criteria, compares answer pairs for semantic consistency, and
// checks SQL query sequences against expected reasoning steps. All graders
// ask the model for a JSON verdict and retry when the reply does not parse.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model generates a text reply for a prompt. *agent.GeminiModel satisfies it.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// Judge evaluates answers using an LLM grader.
type Judge struct {
	model      Model
	maxRetries int
	retryDelay time.Duration
}

// Option adjusts judge behavior.
type Option func(*Judge)

// WithRetry overrides the retry count and delay used when the grader returns
// malformed JSON.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(j *Judge) {
		j.maxRetries = maxRetries
		j.retryDelay = delay
	}
}

// New creates a judge backed by the given model.
func New(model Model, opts ...Option) *Judge {
	j := &Judge{
		model:      model,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// AnswerScores is the grader's verdict on one answer. When the grader never
// produced valid JSON, Error is set and RawResponse holds the last reply.
type AnswerScores struct {
	Question                string `json:"question"`
	CorrectnessScore        int    `json:"correctness_score"`
	CorrectnessExplanation  string `json:"correctness_explanation"`
	CompletenessScore       int    `json:"completeness_score"`
	CompletenessExplanation string `json:"completeness_explanation"`
	ConcisenessScore        int    `json:"conciseness_score"`
	ConcisenessExplanation  string `json:"conciseness_explanation"`
	FaithfulnessScore       int    `json:"faithfulness_score"`
	FaithfulnessExplanation string `json:"faithfulness_explanation"`

	Error       string `json:"error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// ConsistencyResult is the grader's verdict on whether two answers to the
// same question agree.
type ConsistencyResult struct {
	ConsistencyScore       int    `json:"consistency_score"`
	ConsistencyExplanation string `json:"consistency_explanation"`
}

// StepsResult is the grader's verdict on an answer's SQL queries against the
// expected reasoning steps.
type StepsResult struct {
	MissingSteps          []string          `json:"missing_steps"`
	ExtraSteps            []string          `json:"extra_steps"`
	StepsToQueriesMapping map[string]string `json:"steps_to_queries_mapping"`
	Completeness          int               `json:"completeness"`
	Conciseness           int               `json:"conciseness"`
	Correctness           int               `json:"correctness"`
	Comments              string            `json:"comments"`
}

// EvaluateAnswer grades an answer against the expected one. A grader that
// keeps returning malformed JSON yields AnswerScores with Error and
// RawResponse set rather than a Go error, so evaluation runs can record the
// failure alongside the scored rows.
func (j *Judge) EvaluateAnswer(ctx context.Context, question, expected, output string) (AnswerScores, error) {
	prompt := fmt.Sprintf(answerPrompt, question, expected, output)

	var scores AnswerScores
	raw, err := j.generateJSON(ctx, prompt, &scores)
	if err != nil {
		return AnswerScores{}, err
	}
	if raw != "" {
		return AnswerScores{Question: question, Error: "invalid JSON", RawResponse: raw}, nil
	}

	scores.Question = question
	return scores, nil
}

// EvaluateConsistency grades whether two answers to the same question convey
// the same information.
func (j *Judge) EvaluateConsistency(ctx context.Context, question, answerA, answerB string) (ConsistencyResult, error) {
	prompt := fmt.Sprintf(consistencyPrompt, question, answerA, answerB)

	var result ConsistencyResult
	raw, err := j.generateJSON(ctx, prompt, &result)
	if err != nil {
		return ConsistencyResult{}, err
	}
	if raw != "" {
		return ConsistencyResult{}, fmt.Errorf("consistency grader returned invalid JSON: %s", truncate(raw, 200))
	}

	return result, nil
}

// EvaluateSteps grades the SQL queries in an answer against the expected
// reasoning steps.
func (j *Judge) EvaluateSteps(ctx context.Context, question, expectedSteps, output string) (StepsResult, error) {
	prompt := fmt.Sprintf(stepsPrompt, question, expectedSteps, output)

	var result StepsResult
	raw, err := j.generateJSON(ctx, prompt, &result)
	if err != nil {
		return StepsResult{}, err
	}
	if raw != "" {
		return StepsResult{}, fmt.Errorf("steps grader returned invalid JSON: %s", truncate(raw, 200))
	}

	return result, nil
}

// generateJSON runs the prompt, strips code fences, and unmarshals into out.
// It retries on parse failures. On success it returns ("", nil); when all
// attempts produce malformed JSON it returns the last raw reply.
func (j *Judge) generateJSON(ctx context.Context, prompt string, out any) (string, error) {
	var lastRaw string
	for attempt := 0; attempt < j.maxRetries; attempt++ {
		if attempt > 0 && j.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(j.retryDelay):
			}
		}

		reply, err := j.model.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("grader request failed: %w", err)
		}

		lastRaw = StripFences(reply)
		if err := json.Unmarshal([]byte(lastRaw), out); err == nil {
			return "", nil
		}
	}

	return lastRaw, nil
}

// StripFences removes markdown code fences from a model reply so the JSON
// inside can be parsed.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
