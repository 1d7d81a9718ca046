package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/judge"
	"github.com/cbiohub/cbioqa/internal/report"
)

// StepsRubric pairs a question with its expected reasoning steps. A rubric
// may carry a brief description, a detailed one, or both.
type StepsRubric struct {
	Question           string `json:"question"`
	AnswerInstructions struct {
		Brief    string `json:"brief"`
		Detailed string `json:"detailed"`
	} `json:"answer_instructions"`
}

// StepsQuestionResult is the grader's verdict on one question, per rubric
// variant.
type StepsQuestionResult struct {
	Question string             `json:"question"`
	Brief    *judge.StepsResult `json:"response_brief,omitempty"`
	Detailed *judge.StepsResult `json:"response_detailed,omitempty"`
}

// LoadStepsRubrics reads a rubrics JSON file keyed by question number.
func LoadStepsRubrics(path string) (map[string]StepsRubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubrics file: %w", err)
	}
	var rubrics map[string]StepsRubric
	if err := json.Unmarshal(data, &rubrics); err != nil {
		return nil, fmt.Errorf("failed to parse rubrics file: %w", err)
	}
	return rubrics, nil
}

// RunStepsEval grades the SQL queries in each answer file against the
// expected steps from the rubrics file. Answer files are passed whole since
// the tool-call queries are the subject of the grading. Results land in
// steps_eval_<yyyymmdd>.json with an averages text file beside it; the
// returned map carries the average per rubric variant and criterion.
func RunStepsEval(ctx context.Context, j *judge.Judge, log *zap.Logger, rubricsFile, answersDir, outputDir string) (string, map[string]float64, error) {
	rubrics, err := LoadStepsRubrics(rubricsFile)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	keys := make([]string, 0, len(rubrics))
	for k := range rubrics {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	results := make(map[string]StepsQuestionResult)
	for _, key := range keys {
		r := rubrics[key]
		brief := r.AnswerInstructions.Brief
		detailed := r.AnswerInstructions.Detailed
		if brief == "" && detailed == "" {
			log.Warn("no steps in rubric", zap.String("question", key))
			continue
		}

		num, err := strconv.Atoi(key)
		if err != nil {
			return "", nil, fmt.Errorf("invalid question number %q in rubrics", key)
		}
		if !report.HasAnswer(answersDir, num) {
			log.Warn("no answer file for question", zap.Int("question", num))
			continue
		}
		output, err := report.ReadAnswer(answersDir, num)
		if err != nil {
			return "", nil, err
		}

		result := StepsQuestionResult{Question: r.Question}
		if brief != "" {
			verdict, err := j.EvaluateSteps(ctx, r.Question, brief, output)
			if err != nil {
				return "", nil, fmt.Errorf("question %s (brief): %w", key, err)
			}
			result.Brief = &verdict
		}
		if detailed != "" {
			verdict, err := j.EvaluateSteps(ctx, r.Question, detailed, output)
			if err != nil {
				return "", nil, fmt.Errorf("question %s (detailed): %w", key, err)
			}
			result.Detailed = &verdict
		}

		results[key] = result
		log.Info("steps graded", zap.Int("question", num))
	}

	if len(results) == 0 {
		return "", nil, fmt.Errorf("no questions could be graded against %s", rubricsFile)
	}

	dateStr := time.Now().Format("20060102")
	resultsPath := filepath.Join(outputDir, fmt.Sprintf("steps_eval_%s.json", dateStr))
	payload, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return "", nil, err
	}
	if err := os.WriteFile(resultsPath, payload, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write steps results: %w", err)
	}

	averages, lines := stepsAverages(results)
	avgPath := filepath.Join(outputDir, fmt.Sprintf("steps_eval_averages_%s.txt", dateStr))
	if err := os.WriteFile(avgPath, []byte(lines), 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write steps averages: %w", err)
	}

	return resultsPath, averages, nil
}

// stepsAverages computes per-variant averages and renders the summary lines.
func stepsAverages(results map[string]StepsQuestionResult) (map[string]float64, string) {
	type tally struct {
		completeness, conciseness, correctness int
		n                                      int
	}
	var brief, detailed tally

	for _, r := range results {
		if r.Brief != nil {
			brief.completeness += r.Brief.Completeness
			brief.conciseness += r.Brief.Conciseness
			brief.correctness += r.Brief.Correctness
			brief.n++
		}
		if r.Detailed != nil {
			detailed.completeness += r.Detailed.Completeness
			detailed.conciseness += r.Detailed.Conciseness
			detailed.correctness += r.Detailed.Correctness
			detailed.n++
		}
	}

	avg := func(sum, n int) float64 {
		if n == 0 {
			return 0
		}
		return float64(sum) / float64(n)
	}

	averages := map[string]float64{
		"brief_completeness":    avg(brief.completeness, brief.n),
		"brief_conciseness":     avg(brief.conciseness, brief.n),
		"brief_correctness":     avg(brief.correctness, brief.n),
		"detailed_completeness": avg(detailed.completeness, detailed.n),
		"detailed_conciseness":  avg(detailed.conciseness, detailed.n),
		"detailed_correctness":  avg(detailed.correctness, detailed.n),
	}

	lines := fmt.Sprintf(
		"Average completeness (brief): %.2f for %d questions\n"+
			"Average conciseness (brief): %.2f for %d questions\n"+
			"Average correctness (brief): %.2f for %d questions\n"+
			"Average completeness (detailed): %.2f for %d questions\n"+
			"Average conciseness (detailed): %.2f for %d questions\n"+
			"Average correctness (detailed): %.2f for %d questions\n",
		averages["brief_completeness"], brief.n,
		averages["brief_conciseness"], brief.n,
		averages["brief_correctness"], brief.n,
		averages["detailed_completeness"], detailed.n,
		averages["detailed_conciseness"], detailed.n,
		averages["detailed_correctness"], detailed.n)

	return averages, lines
}
