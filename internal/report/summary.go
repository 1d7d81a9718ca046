package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WriteReproducibilityCSV writes per-question consistency scores to
// reproducibility_<yyyymmdd>.csv in dir, with the overall score as a comment
// line on top. Returns the file path.
func WriteReproducibilityCSV(dir string, perQuestion map[int]float64, overall float64, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var body strings.Builder
	w := csv.NewWriter(&body)
	if err := w.Write([]string{"question", "reproducibility_score"}); err != nil {
		return "", err
	}
	for _, num := range sortedKeys(perQuestion) {
		record := []string{
			strconv.Itoa(num),
			strconv.FormatFloat(perQuestion[num], 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	header := fmt.Sprintf("# Average reproducibility_score: %.4f,\n", overall)

	path := filepath.Join(dir, fmt.Sprintf("reproducibility_%s.csv", now.Format("20060102")))
	if err := os.WriteFile(path, []byte(header+body.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write reproducibility CSV: %w", err)
	}
	return path, nil
}

// WriteURLScoreSummary writes url_scores_summary.tsv in dir with one row per
// question: its best URL score and any special query ids flagged during
// comparison.
func WriteURLScoreSummary(dir string, scores map[int]float64, specialIDs map[int]string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "url_scores_summary.tsv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write([]string{"question_id", "score", "special_query_ids"}); err != nil {
		return "", err
	}
	for _, num := range sortedKeys(scores) {
		record := []string{
			strconv.Itoa(num),
			strconv.FormatFloat(scores[num], 'f', 4, 64),
			specialIDs[num],
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
