package bench

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/judge"
	"github.com/cbiohub/cbioqa/internal/report"
)

const stepsRubricsJSON = `{
	"1": {
		"question": "How many TP53 mutations are in the BRCA study?",
		"answer_instructions": {
			"brief": "Count mutations in genomic_event_derived for TP53 in brca_tcga.",
			"detailed": "Step 1: Filter genomic_event_derived by hugo_gene_symbol = TP53. Step 2: Restrict to cancer_study_identifier = brca_tcga. Step 3: Count rows."
		}
	},
	"2": {
		"question": "Which study has the most samples?",
		"answer_instructions": {}
	}
}`

const stepsVerdict = `{
	"missing_steps": [],
	"extra_steps": ["Query 2: Unnecessary join with sample_derived"],
	"steps_to_queries_mapping": {"1": "1"},
	"completeness": 3,
	"conciseness": 2,
	"correctness": 3,
	"comments": "Queries match the expected steps with one redundant join."
}`

func TestRunStepsEval(t *testing.T) {
	tmp := t.TempDir()
	rubrics := filepath.Join(tmp, "rubrics.json")
	require.NoError(t, os.WriteFile(rubrics, []byte(stepsRubricsJSON), 0644))

	answersDir := filepath.Join(tmp, "answers")
	_, err := report.WriteAnswer(answersDir, 1, "Gene-level",
		"How many TP53 mutations are in the BRCA study?",
		"There are 312 TP53 mutations.\n\n```sql\nSELECT COUNT(*) FROM genomic_event_derived WHERE hugo_gene_symbol = 'TP53'\n```")
	require.NoError(t, err)

	m := &constModel{reply: stepsVerdict}
	j := judge.New(m, judge.WithRetry(1, 0))
	outDir := filepath.Join(tmp, "eval")

	resultsPath, averages, err := RunStepsEval(context.Background(), j, zap.NewNop(),
		rubrics, answersDir, outDir)
	require.NoError(t, err)

	// Question 1 has brief and detailed rubrics, question 2 has none.
	require.Len(t, m.prompts, 2)
	assert.Contains(t, m.prompts[0], "Count mutations in genomic_event_derived")
	assert.Contains(t, m.prompts[0], "SELECT COUNT(*)")
	assert.Contains(t, m.prompts[1], "Step 1: Filter genomic_event_derived")

	assert.InDelta(t, 3.0, averages["brief_completeness"], 1e-9)
	assert.InDelta(t, 2.0, averages["brief_conciseness"], 1e-9)
	assert.InDelta(t, 3.0, averages["detailed_correctness"], 1e-9)

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)

	var results map[string]StepsQuestionResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Contains(t, results, "1")
	assert.NotContains(t, results, "2")
	require.NotNil(t, results["1"].Brief)
	assert.Equal(t, 3, results["1"].Brief.Completeness)
	assert.Equal(t, []string{"Query 2: Unnecessary join with sample_derived"}, results["1"].Brief.ExtraSteps)

	matches, err := filepath.Glob(filepath.Join(outDir, "steps_eval_averages_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	avgData, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(avgData), "Average completeness (brief): 3.00 for 1 questions")
}

func TestRunStepsEvalNoGradableQuestions(t *testing.T) {
	tmp := t.TempDir()
	rubrics := filepath.Join(tmp, "rubrics.json")
	require.NoError(t, os.WriteFile(rubrics, []byte(`{"1": {"question": "q", "answer_instructions": {}}}`), 0644))

	j := judge.New(&constModel{reply: stepsVerdict}, judge.WithRetry(1, 0))

	_, _, err := RunStepsEval(context.Background(), j, zap.NewNop(),
		rubrics, tmp, filepath.Join(tmp, "eval"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions could be graded")
}
