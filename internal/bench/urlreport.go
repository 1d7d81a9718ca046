package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/dataset"
	"github.com/cbiohub/cbioqa/internal/report"
	"github.com/cbiohub/cbioqa/internal/urlscore"
)

// URLScoreResult summarizes a URL comparison pass over an answers directory.
type URLScoreResult struct {
	Scores      map[int]float64
	SpecialIDs  map[int]string
	Average     float64
	SummaryPath string
}

// RunURLScoring compares the URLs in each answer file against the expected
// links in the given column. Questions without expected URLs are skipped;
// answer URLs are restricted to cbioportal.org links. Per-question detail
// trees land in url_result_q<N>.tsv next to the summary.
func RunURLScoring(log *zap.Logger, questionsFile, answersDir, outputDir, column string) (*URLScoreResult, error) {
	questions, err := dataset.Load(questionsFile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	scores := make(map[int]float64)
	specialIDs := make(map[int]string)

	for _, q := range questions {
		expected := q.ExpectedAnswer(column)
		if expected == "" {
			continue
		}
		if !report.HasAnswer(answersDir, q.Number) {
			continue
		}

		output, err := report.ReadAnswer(answersDir, q.Number)
		if err != nil {
			return nil, err
		}

		expectedURLs := urlscore.ExtractURLs(expected)
		if len(expectedURLs) == 0 {
			log.Info("no expected URLs, skipping", zap.Int("question", q.Number))
			continue
		}
		answerURLs := urlscore.FilterPortalURLs(urlscore.ExtractURLs(output))

		ids := urlscore.CollectSpecialIDs(append(append([]string{}, expectedURLs...), answerURLs...))
		specialIDs[q.Number] = urlscore.FormatSpecialIDs(ids)
		if specialIDs[q.Number] != "" {
			log.Warn("special query ids present",
				zap.Int("question", q.Number),
				zap.String("ids", specialIDs[q.Number]))
		}

		score, rows := urlscore.BestScore(expectedURLs, answerURLs)
		scores[q.Number] = score
		log.Info("question url score",
			zap.Int("question", q.Number),
			zap.Float64("score", score))

		detail, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("url_result_q%d.tsv", q.Number)))
		if err != nil {
			return nil, err
		}
		writeErr := urlscore.WriteRowsTSV(detail, rows)
		closeErr := detail.Close()
		if writeErr != nil {
			return nil, writeErr
		}
		if closeErr != nil {
			return nil, closeErr
		}
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("no questions had expected URLs in column %q", column)
	}

	summaryPath, err := report.WriteURLScoreSummary(outputDir, scores, specialIDs)
	if err != nil {
		return nil, err
	}

	avg := 0.0
	for _, s := range scores {
		avg += s
	}
	avg /= float64(len(scores))
	log.Info("url scoring complete",
		zap.Float64("average", avg),
		zap.String("summary", summaryPath))

	return &URLScoreResult{
		Scores:      scores,
		SpecialIDs:  specialIDs,
		Average:     avg,
		SummaryPath: summaryPath,
	}, nil
}
