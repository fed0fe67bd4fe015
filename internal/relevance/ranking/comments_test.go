package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lega0208/upd-new-sub004/internal/models"
)

func TestScoreCommentsEqualFrequencyWordsEqualBase(t *testing.T) {
	// Five distinct words, each occurring once in one comment: every word
	// score is identical, so both comments share the same base score no
	// matter how many words they contain.
	comments := []models.RawComment{
		comment("short", "find", "noa"),
		comment("long", "great", "site", "thanks"),
	}
	words := ScoreWords(comments)
	scored := ScoreComments(comments, words, DefaultNormalizationStrength)
	require.Len(t, scored, 2)

	byID := make(map[string]models.ScoredComment, len(scored))
	for _, sc := range scored {
		byID[sc.ID] = sc
	}
	assert.InDelta(t, byID["short"].TfIdf, byID["long"].TfIdf, 1e-12)

	// At the default strength the longer comment keeps a length bonus.
	assert.Greater(t, byID["long"].TfIdfNormalized, byID["short"].TfIdfNormalized)
}

func TestScoreCommentsStrengthNeverHurtsShortComments(t *testing.T) {
	comments := []models.RawComment{
		comment("short", "find", "noa"),
		comment("long", "great", "site", "thanks"),
	}
	words := ScoreWords(comments)

	ratio := func(strength float64) float64 {
		scored := ScoreComments(comments, words, strength)
		byID := make(map[string]models.ScoredComment, len(scored))
		for _, sc := range scored {
			byID[sc.ID] = sc
		}
		return byID["short"].TfIdfNormalized / byID["long"].TfIdfNormalized
	}

	// Raising the strength moves the short/long ratio monotonically
	// toward parity.
	prev := ratio(1)
	for _, strength := range []float64{1.5, 2, 3, 5, 10, 100} {
		cur := ratio(strength)
		assert.GreaterOrEqual(t, cur, prev, "strength %v", strength)
		assert.LessOrEqual(t, cur, 1.0, "strength %v", strength)
		prev = cur
	}
}

func TestScoreCommentsStrengthOne(t *testing.T) {
	// Strength 1 applies no length adjustment: the normalized score is
	// the raw sum of word scores.
	comments := []models.RawComment{
		comment("1", "find", "noa", "account"),
	}
	words := ScoreWords(comments)
	scored := ScoreComments(comments, words, 1)
	require.Len(t, scored, 1)

	sum := 0.0
	for _, w := range words {
		sum += w.Score
	}
	assert.InDelta(t, sum, scored[0].TfIdfNormalized, 1e-12)
	assert.InDelta(t, sum/3, scored[0].TfIdf, 1e-12)
}

func TestScoreCommentsInvalidStrengthFallsBack(t *testing.T) {
	comments := []models.RawComment{
		comment("short", "find", "noa"),
		comment("long", "great", "site", "thanks"),
	}
	words := ScoreWords(comments)

	want := ScoreComments(comments, words, DefaultNormalizationStrength)
	assert.Equal(t, want, ScoreComments(comments, words, 0))
	assert.Equal(t, want, ScoreComments(comments, words, -2))

	// Sub-one strengths clamp to 1 instead of inverting the adjustment.
	one := ScoreComments(comments, words, 1)
	assert.Equal(t, one, ScoreComments(comments, words, 0.25))
}

func TestScoreCommentsSortedAndStripped(t *testing.T) {
	comments := []models.RawComment{
		{ID: "skip", Lang: models.LangEN}, // Words nil, excluded
		comment("a", "find"),
		comment("b", "find", "noa", "account", "login"),
		comment("c", "find"),
	}
	words := ScoreWords(comments)
	scored := ScoreComments(comments, words, DefaultNormalizationStrength)
	require.Len(t, scored, 3)

	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].TfIdfNormalized, scored[i].TfIdfNormalized)
	}
	// a and c are identical; stable sort keeps their input order.
	ids := []string{scored[0].ID, scored[1].ID, scored[2].ID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	// The token list is working state, not output.
	for _, sc := range scored {
		assert.Nil(t, sc.Words)
	}

	// Inputs keep their tokens for the caller.
	assert.NotNil(t, comments[1].Words)
}
