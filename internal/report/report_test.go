package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiohub/cbioqa/internal/judge"
)

func TestWriteAndReadAnswer(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteAnswer(dir, 3, "Basic/statistical",
		"How many studies are in the portal?", "There are 392 studies.")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "3.md"), path)

	content, err := ReadAnswer(dir, 3)
	require.NoError(t, err)

	wantParts := []string{
		"# Question 3",
		"**Type:** Basic/statistical",
		"**Question:** How many studies are in the portal?",
		"**Answer:**\n\nThere are 392 studies.",
		"---",
		"*Generated on ",
	}
	for _, part := range wantParts {
		assert.Contains(t, content, part)
	}

	assert.True(t, HasAnswer(dir, 3))
	assert.False(t, HasAnswer(dir, 4))
}

func TestExtractAnswerContent(t *testing.T) {
	t.Run("extracts answer from full markdown", func(t *testing.T) {
		markdown := `# Question 1

**Type:** Data Discovery

**Question:** How many studies are in cBioPortal?

**Answer:**

There are **511 studies** in cBioPortal.

---

*Generated on 2026-01-28 10:00:00*
`
		got := ExtractAnswerContent(markdown)
		assert.Contains(t, got, "511 studies")
		assert.NotContains(t, got, "Type:")
		assert.NotContains(t, got, "Generated on")
	})

	t.Run("strips sql tool call blocks", func(t *testing.T) {
		markdown := "**Answer:**\n\n" +
			"The study has 24,950 patients.\n\n" +
			"Calling `execute_query` with args:\n" +
			"```json\n{\"query\": \"SELECT COUNT(*) FROM patient\"}\n```\n" +
			"Result from `execute_query`:\n" +
			"```json\n{\"count\": 24950}\n```\n\n" +
			"So the answer is 24,950 patients.\n\n---\n"

		got := ExtractAnswerContent(markdown)
		assert.Contains(t, got, "24,950 patients")
		assert.NotContains(t, got, "execute_query")
		assert.NotContains(t, got, "SELECT COUNT")
	})

	t.Run("falls back to plain text without marker", func(t *testing.T) {
		plain := "This is just plain text without any answer markers."
		assert.Equal(t, plain, ExtractAnswerContent(plain))
	})

	t.Run("handles answer with no trailing separator", func(t *testing.T) {
		markdown := "**Answer:**\n\nThere are 492 studies in cBioPortal."
		assert.Contains(t, ExtractAnswerContent(markdown), "492 studies")
	})

	t.Run("strips sql appendix and response time footer", func(t *testing.T) {
		markdown := "**Answer:**\n\n" +
			"TP53 is the most frequently mutated gene.\n\n" +
			"## SQL Queries Executed\n\n### Query 1\n```sql\nSELECT hugo_gene_symbol FROM genomic_event_derived\n```\n\n" +
			"*Response time: 12.40s*\n\n---\n"

		got := ExtractAnswerContent(markdown)
		assert.Equal(t, "TP53 is the most frequently mutated gene.", got)
	})
}

func TestWriteEvaluationCSV(t *testing.T) {
	dir := t.TempDir()

	results := []judge.AnswerScores{
		{
			Question:         "q1",
			CorrectnessScore: 3, CompletenessScore: 3, ConcisenessScore: 2, FaithfulnessScore: 3,
			CorrectnessExplanation: "accurate",
		},
		{
			Question:         "q2",
			CorrectnessScore: 1, CompletenessScore: 1, ConcisenessScore: 2, FaithfulnessScore: 1,
		},
		{Question: "q3", Error: "invalid JSON", RawResponse: "not json"},
	}

	now := time.Date(2025, 8, 24, 12, 0, 0, 0, time.UTC)
	path, averages, err := WriteEvaluationCSV(dir, results, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evaluation_20250824.csv"), path)

	// The failed row does not count toward averages.
	assert.InDelta(t, 2.0, averages["correctness_score"], 1e-9)
	assert.InDelta(t, 2.0, averages["completeness_score"], 1e-9)
	assert.InDelta(t, 2.0, averages["conciseness_score"], 1e-9)
	assert.InDelta(t, 2.0, averages["faithfulness_score"], 1e-9)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Average correctness_score: 2.00"))
	assert.Contains(t, content, "# Average faithfulness_score: 2.00")
	assert.Contains(t, content, "question,correctness_score")
	assert.Contains(t, content, "q1,3,accurate")
	assert.Contains(t, content, "invalid JSON,not json")
}

func TestUpdateLeaderboardInitializesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEADERBOARD.md")

	metrics := map[string]float64{
		"correctness_score":  2.5,
		"completeness_score": 2.8,
		"conciseness_score":  2.0,
		"faithfulness_score": 3.0,
	}

	require.NoError(t, UpdateLeaderboard(path, "mcp-clickhouse", metrics, "20250824"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Benchmark Leaderboard")
	assert.Contains(t, content, "| Date | Agent Type | Correctness | Completeness | Faithfulness | Conciseness |")
	assert.Contains(t, content, "| 20250824 | mcp-clickhouse | 2.50 | 2.80 | 3.00 | 2.00 |")

	// A second run keeps the first row.
	require.NoError(t, UpdateLeaderboard(path, "cbio-qa-null", metrics, "20250825"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	content = string(data)

	assert.Contains(t, content, "| 20250824 | mcp-clickhouse |")
	assert.Contains(t, content, "| 20250825 | cbio-qa-null |")
	assert.Equal(t, 1, strings.Count(content, "| Date |"))
}

func TestUpdateLeaderboardReplacesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEADERBOARD.md")
	require.NoError(t, os.WriteFile(path, []byte("random notes, no table\n"), 0644))

	require.NoError(t, UpdateLeaderboard(path, "gemini", map[string]float64{}, "20250824"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "random notes")
	assert.Contains(t, content, "| 20250824 | gemini | 0.00 | 0.00 | 0.00 | 0.00 |")
}

func TestWriteReproducibilityCSV(t *testing.T) {
	dir := t.TempDir()

	perQuestion := map[int]float64{1: 1.0, 2: 0.6667}
	now := time.Date(2025, 8, 24, 12, 0, 0, 0, time.UTC)

	path, err := WriteReproducibilityCSV(dir, perQuestion, 0.8333, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reproducibility_20250824.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Average reproducibility_score: 0.8333"))
	assert.Contains(t, content, "question,reproducibility_score")
	assert.Contains(t, content, "1,1.0000")
	assert.Contains(t, content, "2,0.6667")
}

func TestWriteURLScoreSummary(t *testing.T) {
	dir := t.TempDir()

	scores := map[int]float64{1: 1.0, 3: 0.75}
	special := map[int]string{3: "session_id=5f2a"}

	path, err := WriteURLScoreSummary(dir, scores, special)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "question_id\tscore\tspecial_query_ids", lines[0])
	assert.Equal(t, "1\t1.0000\t", lines[1])
	assert.Equal(t, "3\t0.7500\tsession_id=5f2a", lines[2])
}
