package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cbiohub/cbioqa/internal/judge"
)

// evalColumns fixes the evaluation CSV layout. Score columns end in
// "_score" so the averaging step can find them.
var evalColumns = []string{
	"question",
	"correctness_score", "correctness_explanation",
	"completeness_score", "completeness_explanation",
	"conciseness_score", "conciseness_explanation",
	"faithfulness_score", "faithfulness_explanation",
	"error", "raw_response",
}

// ScoreColumns lists the numeric criteria columns in CSV order.
var ScoreColumns = []string{
	"correctness_score", "completeness_score", "conciseness_score", "faithfulness_score",
}

// WriteEvaluationCSV writes judged results to evaluation_<yyyymmdd>.csv in
// dir, with one "# Average <column>: x.xx" comment line per score column
// prepended. Rows where the grader failed are written but excluded from the
// averages. Returns the file path and the average per score column.
func WriteEvaluationCSV(dir string, results []judge.AnswerScores, now time.Time) (string, map[string]float64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create evaluation directory: %w", err)
	}

	averages := Averages(results)

	var body strings.Builder
	w := csv.NewWriter(&body)
	if err := w.Write(evalColumns); err != nil {
		return "", nil, err
	}
	for _, r := range results {
		record := []string{
			r.Question,
			strconv.Itoa(r.CorrectnessScore), r.CorrectnessExplanation,
			strconv.Itoa(r.CompletenessScore), r.CompletenessExplanation,
			strconv.Itoa(r.ConcisenessScore), r.ConcisenessExplanation,
			strconv.Itoa(r.FaithfulnessScore), r.FaithfulnessExplanation,
			r.Error, r.RawResponse,
		}
		if err := w.Write(record); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	// Comment lines are padded with commas so the file still parses as CSV.
	pad := strings.Repeat(",", len(evalColumns)-1)
	var header strings.Builder
	for _, col := range ScoreColumns {
		fmt.Fprintf(&header, "# Average %s: %.2f%s\n", col, averages[col], pad)
	}

	path := filepath.Join(dir, fmt.Sprintf("evaluation_%s.csv", now.Format("20060102")))
	if err := os.WriteFile(path, []byte(header.String()+body.String()), 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write evaluation CSV: %w", err)
	}

	return path, averages, nil
}

// Averages computes the mean of each score column over successfully judged
// results.
func Averages(results []judge.AnswerScores) map[string]float64 {
	sums := make(map[string]float64, len(ScoreColumns))
	count := 0
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		count++
		sums["correctness_score"] += float64(r.CorrectnessScore)
		sums["completeness_score"] += float64(r.CompletenessScore)
		sums["conciseness_score"] += float64(r.ConcisenessScore)
		sums["faithfulness_score"] += float64(r.FaithfulnessScore)
	}

	averages := make(map[string]float64, len(ScoreColumns))
	for _, col := range ScoreColumns {
		if count > 0 {
			averages[col] = sums[col] / float64(count)
		}
	}
	return averages
}
