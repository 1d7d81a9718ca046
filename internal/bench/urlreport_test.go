package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/report"
)

func TestRunURLScoring(t *testing.T) {
	questionsFile := filepath.Join(t.TempDir(), "questions.csv")
	csv := `#,Question Type,Question,Navbot Expected Link
1,Navigation,Link to the BRCA study,https://www.cbioportal.org/study/summary?id=brca_tcga
2,Navigation,Link to clinical data,https://www.cbioportal.org/study/clinicalData?id=brca_tcga
3,Basic/statistical,How many studies are there?,
`
	require.NoError(t, os.WriteFile(questionsFile, []byte(csv), 0644))

	answersDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "eval")

	// Exact link for question 1; wrong page plus an off-portal link for 2.
	_, err := report.WriteAnswer(answersDir, 1, "Navigation", "Link to the BRCA study",
		"Here: [BRCA study](https://www.cbioportal.org/study/summary?id=brca_tcga)")
	require.NoError(t, err)
	_, err = report.WriteAnswer(answersDir, 2, "Navigation", "Link to clinical data",
		"Try https://www.cbioportal.org/study/summary?id=brca_tcga or https://example.com/docs")
	require.NoError(t, err)

	result, err := RunURLScoring(zap.NewNop(), questionsFile, answersDir, outDir, "Navbot Expected Link")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Scores[1], 1e-9)
	// Question 2: the path's second segment differs, query matches.
	assert.InDelta(t, 0.75, result.Scores[2], 1e-9)
	// Question 3 has no expected link and is absent.
	_, ok := result.Scores[3]
	assert.False(t, ok)

	assert.InDelta(t, 0.875, result.Average, 1e-9)
	assert.FileExists(t, result.SummaryPath)
	assert.FileExists(t, filepath.Join(outDir, "url_result_q1.tsv"))
	assert.FileExists(t, filepath.Join(outDir, "url_result_q2.tsv"))
}

func TestRunURLScoringNoExpectedURLs(t *testing.T) {
	questionsFile := filepath.Join(t.TempDir(), "questions.csv")
	csv := "#,Question Type,Question,Navbot Expected Link\n1,Basic/statistical,How many?,plain text answer\n"
	require.NoError(t, os.WriteFile(questionsFile, []byte(csv), 0644))

	answersDir := t.TempDir()
	_, err := report.WriteAnswer(answersDir, 1, "Basic/statistical", "How many?", "392")
	require.NoError(t, err)

	_, err = RunURLScoring(zap.NewNop(), questionsFile, answersDir, t.TempDir(), "Navbot Expected Link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions had expected URLs")
}
