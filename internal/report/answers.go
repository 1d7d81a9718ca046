// Package report writes benchmark artifacts: per-question answer files,
// evaluation CSVs with average-score headers, URL score summaries, and the
// leaderboard.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const answerTimestamp = "2006-01-02 15:04:05"

const answerMarker = "**Answer:**"

var (
	separatorLine = regexp.MustCompile(`(?m)^---\s*$`)
	toolCallBlock = regexp.MustCompile("(?s)(?:Calling|Result from)\\s+`[^`]*`[^\n]*\n```.*?```\n?")
	sqlAppendix   = regexp.MustCompile(`(?s)## SQL Queries Executed.*$`)
	responseTime  = regexp.MustCompile(`(?m)^\*Response time: [^\n]*\*\s*$`)
)

// WriteAnswer writes one question's answer as <num>.md in dir and returns
// the file path. Append any SQL appendix to answer before calling.
func WriteAnswer(dir string, num int, questionType, questionText, answer string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create answers directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.md", num))
	content := fmt.Sprintf(`# Question %d

**Type:** %s

**Question:** %s

**Answer:**

%s

---

*Generated on %s*
`, num, questionType, questionText, answer, time.Now().Format(answerTimestamp))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write answer file: %w", err)
	}
	return path, nil
}

// ReadAnswer reads the answer file for a question number from dir.
func ReadAnswer(dir string, num int) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%d.md", num)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HasAnswer reports whether an answer file exists for the question number.
func HasAnswer(dir string, num int) bool {
	_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("%d.md", num)))
	return err == nil
}

// ExtractAnswerContent isolates the answer body from an answer file so
// graders see only what the agent said. It takes the section after the
// **Answer:** marker up to the --- separator and strips SQL tool-call
// blocks, the SQL appendix, and response-time footers. Text without the
// marker is returned unchanged.
func ExtractAnswerContent(text string) string {
	idx := strings.Index(text, answerMarker)
	if idx == -1 {
		return text
	}

	section := text[idx+len(answerMarker):]
	if loc := separatorLine.FindStringIndex(section); loc != nil {
		section = section[:loc[0]]
	}

	section = toolCallBlock.ReplaceAllString(section, "")
	section = sqlAppendix.ReplaceAllString(section, "")
	section = responseTime.ReplaceAllString(section, "")

	return strings.TrimSpace(section)
}
