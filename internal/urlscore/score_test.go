package urlscore

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "markdown link",
			text: "See [the study](https://www.cbioportal.org/study/summary?id=brca_tcga) for details.",
			want: []string{"https://www.cbioportal.org/study/summary?id=brca_tcga"},
		},
		{
			name: "bare url with trailing period",
			text: "Open https://www.cbioportal.org/study/summary?id=brca_tcga.",
			want: []string{"https://www.cbioportal.org/study/summary?id=brca_tcga"},
		},
		{
			name: "url wrapped in prose parens",
			text: "(see https://cbioportal.org/results)",
			want: []string{"https://cbioportal.org/results"},
		},
		{
			name: "deduplicates in order",
			text: "https://cbioportal.org/a then https://cbioportal.org/b then https://cbioportal.org/a",
			want: []string{"https://cbioportal.org/a", "https://cbioportal.org/b"},
		},
		{
			name: "no urls",
			text: "There are 392 studies in the portal.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractURLsCompactsFilterJSON(t *testing.T) {
	text := "Use this link:\nhttps://www.cbioportal.org/study/summary?id=msk_chord#filterJson={\n  \"genes\": [\"TP53\"]\n}"

	got := ExtractURLs(text)
	require.Len(t, got, 1)
	assert.Equal(t,
		`https://www.cbioportal.org/study/summary?id=msk_chord#filterJson={"genes":["TP53"]}`,
		got[0])
}

func TestFilterPortalURLs(t *testing.T) {
	urls := []string{
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://example.com/docs",
		"https://cbioportal.org/results",
	}

	got := FilterPortalURLs(urls)
	want := []string{
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://cbioportal.org/results",
	}
	assert.Equal(t, want, got)
}

func TestScoreIdenticalURLs(t *testing.T) {
	score, rows, err := Score(
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.NotEmpty(t, rows)
}

func TestScorePartialPathMatch(t *testing.T) {
	score, _, err := Score(
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://www.cbioportal.org/study/clinicalData?id=brca_tcga",
	)
	require.NoError(t, err)
	// Half the weight sits on the two path segments; one of them differs.
	assert.InDelta(t, 0.75, score, 1e-9)
}

func TestScoreHostIsNonScoring(t *testing.T) {
	score, _, err := Score(
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://cbioportal.org/study/summary?id=brca_tcga",
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreListValuesAsSets(t *testing.T) {
	score, _, err := Score(
		"https://www.cbioportal.org/results?gene_list=TP53,BRCA1",
		"https://www.cbioportal.org/results?gene_list=BRCA1,TP53",
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreMissingQueryValue(t *testing.T) {
	score, _, err := Score(
		"https://www.cbioportal.org/results?gene_list=TP53,BRCA1",
		"https://www.cbioportal.org/results?gene_list=TP53",
	)
	require.NoError(t, err)
	// One of two exploded gene values matches; path keeps its half.
	assert.InDelta(t, 0.75, score, 1e-9)
}

func TestScoreFilterJSONFragmentStructurally(t *testing.T) {
	expected := `https://www.cbioportal.org/study/summary?id=msk_chord#filterJson={"a":1,"b":2}`

	reordered := `https://www.cbioportal.org/study/summary?id=msk_chord#filterJson={"b":2,"a":1}`
	score, _, err := Score(expected, reordered)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	wrongValue := `https://www.cbioportal.org/study/summary?id=msk_chord#filterJson={"a":1,"b":3}`
	score, _, err = Score(expected, wrongValue)
	require.NoError(t, err)
	// Fragment weight 1/3 splits into key and value; the value splits over
	// two JSON fields, one of which differs.
	assert.InDelta(t, 11.0/12.0, score, 1e-9)
}

func TestBestScorePicksMaxPair(t *testing.T) {
	expected := []string{"https://www.cbioportal.org/study/summary?id=brca_tcga"}
	answers := []string{
		"https://www.cbioportal.org/study/clinicalData?id=brca_tcga",
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
	}

	score, rows := BestScore(expected, answers)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.NotEmpty(t, rows)
}

func TestBestScoreNoAnswers(t *testing.T) {
	score, rows := BestScore([]string{"https://www.cbioportal.org/study"}, nil)
	assert.Zero(t, score)
	assert.Empty(t, rows)
}

func TestCollectSpecialIDs(t *testing.T) {
	urls := []string{
		"https://www.cbioportal.org/results?session_id=5f2a&gene_list=TP53",
		"https://www.cbioportal.org/comparison?comparisonId=abc123",
		"https://www.cbioportal.org/results?session_id=5f2a",
	}

	ids := CollectSpecialIDs(urls)
	require.NotNil(t, ids)
	assert.Equal(t, []string{"5f2a"}, ids["session_id"])
	assert.Equal(t, []string{"abc123"}, ids["comparisonId"])

	assert.Equal(t, "comparisonId=abc123; session_id=5f2a", FormatSpecialIDs(ids))
}

func TestCollectSpecialIDsNone(t *testing.T) {
	ids := CollectSpecialIDs([]string{"https://www.cbioportal.org/study/summary?id=x"})
	assert.Nil(t, ids)
	assert.Equal(t, "", FormatSpecialIDs(ids))
}

func TestWriteRowsTSV(t *testing.T) {
	_, rows, err := Score(
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
		"https://www.cbioportal.org/study/summary?id=brca_tcga",
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRowsTSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "node_id\tcomponent\texpected\tactual\tmatch\tweight\tcounts\tscore", lines[0])
	assert.Len(t, lines, len(rows)+1)
}
