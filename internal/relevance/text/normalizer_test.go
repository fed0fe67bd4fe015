package text

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lega0208/upd-new-sub004/internal/models"
)

func TestWordsEnglish(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{
			name:    "contraction then acronym survives",
			comment: "I can't find my NOA",
			want:    []string{"find", "noa"},
		},
		{
			name:    "short positive comment keeps every content word",
			comment: "Great site, thanks!",
			want:    []string{"great", "site", "thanks"},
		},
		{
			name:    "spelled out phrase becomes its acronym",
			comment: "I lost my notice of assessment",
			want:    []string{"lost", "noa"},
		},
		{
			name:    "two letter acronym token survives the length filter",
			comment: "Employment insurance payments stopped",
			want:    []string{"ei", "payment", "stopped"},
		},
		{
			name:    "dollar amounts and long digit runs removed",
			comment: "I paid $500 on 20240115 yesterday",
			want:    []string{"pay", "yesterday"},
		},
		{
			name:    "repeated characters collapsed before lemmatization",
			comment: "the sooooo helpful page",
			want:    []string{"help", "page"},
		},
		{
			name:    "short digit tokens survive",
			comment: "error 404 on the page",
			want:    []string{"error", "404", "page"},
		},
		{
			name:    "lemmas map inflections to one form",
			comment: "finding forms, found links, finds pages",
			want:    []string{"find", "form", "find", "link", "find", "page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Words(tt.comment, models.LangEN))
		})
	}
}

func TestWordsFrench(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{
			name:    "elisions dropped, accents preserved, no lemmatization",
			comment: "Je n'arrive pas à payer l'impôt",
			want:    []string{"arrive", "payer", "impôt"},
		},
		{
			name:    "unaccented spelling still matches accented stop word",
			comment: "Etait tres bon service",
			want:    []string{"bon", "service"},
		},
		{
			name:    "french acronym phrase",
			comment: "Mon avis de cotisation est introuvable",
			want:    []string{"adc", "introuvable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Words(tt.comment, models.LangFR))
		})
	}
}

func TestWordsRejects(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	tests := []struct {
		name    string
		comment string
		lang    string
	}{
		{"empty text", "", models.LangEN},
		{"whitespace only", "   \t  ", models.LangEN},
		{"unsupported language", "no encuentro la página", "es"},
		{"shortener spam", "check bit.ly/win123 now", models.LangEN},
		{"promo domain spam", "visit www.cheapmeds.xyz today", models.LangEN},
		{"keyword spam", "free bitcoin for everyone", models.LangEN},
		{"no latin script", "не могу найти страницу", models.LangEN},
		{"stop words only", "I can't, so I won't", models.LangEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, n.Words(tt.comment, tt.lang))
		})
	}
}

func TestWordsEmojiAndDigitsOnly(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	// A lone emoji is a valid sentiment signal and must survive.
	assert.Equal(t, []string{"👍"}, n.Words("👍", models.LangEN))

	// Purely numeric text passes the reject filter but long digit runs
	// are stripped during cleaning, so nothing is left to score.
	assert.Nil(t, n.Words("1234567890", models.LangEN))
}

func TestWordsIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	comments := []string{
		"I can't find my NOA",
		"I lost my notice of assessment and my T4",
		"Employment insurance payments stopped",
		"the sooooo helpful page",
	}
	for _, c := range comments {
		once := n.Words(c, models.LangEN)
		require.NotEmpty(t, once)
		twice := n.Words(strings.Join(once, " "), models.LangEN)
		assert.Equal(t, once, twice, "normalizing %q twice changed the output", c)
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	in := []models.RawComment{
		{ID: "1", Date: date, Lang: "EN", Comment: "I can't find my NOA"},
		{ID: "2", Date: date, Lang: "en", Comment: "check bit.ly/win123 now"},
		{ID: "3", Date: date, Lang: "fr", Comment: "Je n'arrive pas à payer l'impôt"},
		{ID: "4", Date: date, Lang: "es", Comment: "no encuentro la página"},
	}
	out := n.Normalize(in)
	require.Len(t, out, len(in))

	// Language codes are lowercased and raw fields pass through intact.
	assert.Equal(t, "en", out[0].Lang)
	assert.Equal(t, "I can't find my NOA", out[0].Comment)
	assert.Equal(t, []string{"find", "noa"}, out[0].Words)

	// Rejected comments keep their place in the batch with Words nil.
	assert.Nil(t, out[1].Words)
	assert.Equal(t, []string{"arrive", "payer", "impôt"}, out[2].Words)
	assert.Nil(t, out[3].Words)

	// The input slice is never mutated.
	assert.Equal(t, "EN", in[0].Lang)
	assert.Nil(t, in[0].Words)
}

func TestCollapseRepeats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"soooo", "so"},
		{"yesss", "yes"},
		{"good", "good"},
		{"aa bb", "aa bb"},
		{"sooo goood", "so god"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, collapseRepeats(tt.in), "input %q", tt.in)
	}
}
