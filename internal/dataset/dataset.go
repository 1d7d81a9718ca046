// Package dataset loads benchmark questions from CSV or TSV files.
//
// A question file has a header row. Recognized columns are "#" (explicit
// question number), "Question Type", "Question", and any number of
// expected-answer columns addressed by name (e.g. "Expected Answer",
// "Navbot Expected Link"). When the "#" column is absent, questions are
// numbered by 1-based row order.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Question is a single benchmark question with its metadata.
type Question struct {
	Number   int
	Type     string
	Text     string
	Expected map[string]string // expected-answer columns by header name
}

// ExpectedAnswer returns the expected answer stored under the given column
// name, or "" when the column is absent or empty for this question.
func (q Question) ExpectedAnswer(column string) string {
	return q.Expected[column]
}

// Load reads all questions from a CSV or TSV file. Files ending in .tsv are
// parsed with a tab separator, everything else with a comma.
func Load(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	if strings.HasSuffix(path, ".tsv") {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse question file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("question file is empty")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	questionCol, ok := colIdx["Question"]
	if !ok {
		return nil, fmt.Errorf("question file has no 'Question' column")
	}
	typeCol, hasType := colIdx["Question Type"]
	numCol, hasNum := colIdx["#"]

	var questions []Question
	for rowIdx, row := range records[1:] {
		q := Question{
			Number:   rowIdx + 1,
			Expected: make(map[string]string),
		}

		if hasNum && numCol < len(row) {
			raw := strings.TrimSpace(row[numCol])
			if raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid question number %q", rowIdx+2, raw)
				}
				q.Number = n
			}
		}

		if questionCol < len(row) {
			q.Text = strings.TrimSpace(row[questionCol])
		}
		if hasType && typeCol < len(row) {
			q.Type = strings.TrimSpace(row[typeCol])
		}

		for name, idx := range colIdx {
			if name == "#" || name == "Question" || name == "Question Type" {
				continue
			}
			if idx < len(row) {
				if v := strings.TrimSpace(row[idx]); v != "" {
					q.Expected[name] = v
				}
			}
		}

		questions = append(questions, q)
	}

	return questions, nil
}

// LoadSelected reads questions and keeps only those whose number is in the
// selection. Results keep file order.
func LoadSelected(path string, selected []int) ([]Question, error) {
	questions, err := Load(path)
	if err != nil {
		return nil, err
	}

	want := make(map[int]bool, len(selected))
	for _, n := range selected {
		want[n] = true
	}

	var filtered []Question
	for _, q := range questions {
		if want[q.Number] {
			filtered = append(filtered, q)
		}
	}

	return filtered, nil
}

// MaxQuestion returns the highest question number available in the file.
func MaxQuestion(path string) (int, error) {
	questions, err := Load(path)
	if err != nil {
		return 0, err
	}

	maxNum := 0
	for _, q := range questions {
		if q.Number > maxNum {
			maxNum = q.Number
		}
	}

	return maxNum, nil
}

// ParseSelection parses a question selection string such as "all", "1-5",
// "1,3,5" or "1-3,7" into a sorted, de-duplicated list of question numbers.
// "all" requires the question file to determine the upper bound.
func ParseSelection(selection, path string) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(selection), "all") {
		maxNum, err := MaxQuestion(path)
		if err != nil {
			return nil, err
		}
		nums := make([]int, 0, maxNum)
		for i := 1; i <= maxNum; i++ {
			nums = append(nums, i)
		}
		return nums, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", part, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", part, err)
			}
			if start > end {
				return nil, fmt.Errorf("invalid selection %q: start after end", part)
			}
			for i := start; i <= end; i++ {
				seen[i] = true
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", part, err)
			}
			seen[n] = true
		}
	}

	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	return nums, nil
}
