// Package ranking computes per-word and per-comment relevance scores
// over a single language partition. Scoring is a pure function of its
// input: repeated calls with the same partition produce identical output,
// which is what keeps cache recomputation races harmless.
package ranking

import (
	"math"
	"sort"

	"github.com/lega0208/upd-new-sub004/internal/models"
)

// ScoreWords computes a frequency × inverse-comment-frequency score for
// every distinct word in the partition. The caller splits comments by
// language first; comments without Words are skipped. Words occurring in
// a single comment are not excluded here; thresholding happens at
// display time.
func ScoreWords(comments []models.RawComment) []models.WordScore {
	counts := make(map[string]int)
	spreads := make(map[string]int)
	order := make([]string, 0)

	totalComments := 0
	totalTokens := 0
	for _, c := range comments {
		if len(c.Words) == 0 {
			continue
		}
		totalComments++
		seen := make(map[string]bool, len(c.Words))
		for _, w := range c.Words {
			if _, known := counts[w]; !known {
				order = append(order, w)
			}
			counts[w]++
			totalTokens++
			if !seen[w] {
				seen[w] = true
				spreads[w]++
			}
		}
	}
	if totalTokens == 0 {
		return []models.WordScore{}
	}

	scores := make([]models.WordScore, 0, len(order))
	for _, w := range order {
		freq := float64(counts[w]) / float64(totalTokens)
		icf := math.Log(float64(totalComments)/float64(spreads[w])) + 1
		scores = append(scores, models.WordScore{
			Word:             w,
			Count:            counts[w],
			Spread:           spreads[w],
			Frequency:        freq,
			InverseFrequency: icf,
			Score:            freq * icf,
		})
	}

	// Stable keeps first-appearance order for equal scores, so output is
	// deterministic across runs.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}
