package ranking

import (
	"math"
	"sort"

	"github.com/lega0208/upd-new-sub004/internal/models"
)

// DefaultNormalizationStrength is applied when a query does not supply
// its own strength.
const DefaultNormalizationStrength = 3.0

// ScoreComments aggregates the shared word scores of a partition into a
// per-comment relevance score, then length-adjusts it.
//
// The base score is the mean of the comment's word scores, so two
// comments built entirely from equal-frequency words start out equal.
// The normalized score is sum / n^(1 - 1/strength), equivalently
// base * n^(1/strength): strength 1 rewards length with the full sum,
// larger strengths shrink the length bonus toward the plain average, so
// raising the strength never costs a short comment ground against a
// long one.
//
// The Words field is internal and stripped from the output. Output is
// sorted descending by normalized score; ties keep ingestion order.
// Score thresholds are display-time filters, never applied here.
func ScoreComments(comments []models.RawComment, wordScores []models.WordScore, strength float64) []models.ScoredComment {
	if strength <= 0 {
		strength = DefaultNormalizationStrength
	}
	if strength < 1 {
		strength = 1
	}
	exponent := 1 - 1/strength

	byWord := make(map[string]float64, len(wordScores))
	for _, ws := range wordScores {
		byWord[ws.Word] = ws.Score
	}

	scored := make([]models.ScoredComment, 0, len(comments))
	for _, c := range comments {
		if len(c.Words) == 0 {
			continue
		}
		sum := 0.0
		for _, w := range c.Words {
			sum += byWord[w]
		}
		n := float64(len(c.Words))
		sc := models.ScoredComment{
			RawComment:      c,
			TfIdf:           sum / n,
			TfIdfNormalized: sum / math.Pow(n, exponent),
		}
		sc.Words = nil
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TfIdfNormalized > scored[j].TfIdfNormalized
	})
	return scored
}
