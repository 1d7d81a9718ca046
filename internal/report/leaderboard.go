package report

import (
	"fmt"
	"os"
	"strings"
)

const (
	leaderboardTitle     = "# Benchmark Leaderboard"
	leaderboardHeader    = "| Date | Agent Type | Correctness | Completeness | Faithfulness | Conciseness |"
	leaderboardSeparator = "|---|---|---|---|---|---|"
)

// UpdateLeaderboard appends one result row to the leaderboard markdown file,
// creating or re-initializing it when the table header is missing. Existing
// rows are preserved.
func UpdateLeaderboard(path, agentType string, metrics map[string]float64, dateStr string) error {
	row := fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.2f |",
		dateStr, agentType,
		metrics["correctness_score"],
		metrics["completeness_score"],
		metrics["faithfulness_score"],
		metrics["conciseness_score"])

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		content := strings.TrimRight(string(data), "\n")
		if content != "" {
			lines = strings.Split(content, "\n")
		}
	}

	if !hasLeaderboardHeader(lines) {
		lines = []string{leaderboardTitle, "", leaderboardHeader, leaderboardSeparator}
	}
	lines = append(lines, row)

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func hasLeaderboardHeader(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, "| Date |") {
			return true
		}
	}
	return false
}
