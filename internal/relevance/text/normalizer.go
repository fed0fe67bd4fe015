// Package text cleans raw feedback comments into the token sequences
// consumed by relevance scoring. Malformed or non-qualifying comments are
// silently excluded rather than surfaced as errors: feedback volume is
// high and a bad row must never abort a batch.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lega0208/upd-new-sub004/internal/models"
)

// Cleaning rewrites applied in a fixed order: later rules assume the
// earlier ones already ran (acronym substitution in particular must see
// contractions expanded first).
var (
	reDollar     = regexp.MustCompile(`\$\d+(?:[.,]\d+)*`)
	rePunct      = regexp.MustCompile(`[^\p{L}\p{N}\p{So}\s']+`)
	reDigitRun   = regexp.MustCompile(`\d{4,}`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reApostrophe = regexp.MustCompile(`'+`)
)

// Normalizer turns raw comments into preprocessed ones. Safe for
// concurrent use; the dictionaries are read-only.
type Normalizer struct {
	dicts       *Dictionaries
	foldedStops map[string]map[string]bool
}

// NewNormalizer builds a Normalizer around the given dictionaries.
func NewNormalizer(dicts *Dictionaries) *Normalizer {
	folded := make(map[string]map[string]bool, len(dicts.StopWords))
	for lang, words := range dicts.StopWords {
		f := make(map[string]bool, len(words))
		for w := range words {
			f[foldDiacritics(w)] = true
		}
		folded[lang] = f
	}
	return &Normalizer{dicts: dicts, foldedStops: folded}
}

// Normalize returns the input comments with Words populated. Comments
// failing the reject filter, or yielding no surviving tokens, come back
// with Words nil so downstream scoring skips them.
func (n *Normalizer) Normalize(comments []models.RawComment) []models.RawComment {
	out := make([]models.RawComment, len(comments))
	for i, c := range comments {
		out[i] = c
		out[i].Lang = strings.ToLower(c.Lang)
		if words := n.Words(c.Comment, out[i].Lang); len(words) > 0 {
			out[i].Words = words
		} else {
			out[i].Words = nil
		}
	}
	return out
}

// Words runs the full reject → clean → tokenize → lemmatize chain for a
// single comment text. Returns nil when the comment does not qualify.
func (n *Normalizer) Words(comment, lang string) []string {
	lang = strings.ToLower(lang)
	if n.reject(comment, lang) {
		return nil
	}
	cleaned := n.clean(comment, lang)
	tokens := n.filterTokens(strings.Fields(cleaned), lang)
	if lang == models.LangEN {
		for i, t := range tokens {
			if lemma, ok := n.dicts.Lemmas[t]; ok {
				tokens[i] = lemma
			}
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func (n *Normalizer) reject(comment, lang string) bool {
	if strings.TrimSpace(comment) == "" {
		return true
	}
	if _, ok := n.dicts.StopWords[lang]; !ok {
		return true
	}
	for _, p := range n.dicts.SpamPatterns {
		if p.MatchString(comment) {
			return true
		}
	}
	return !hasLatin(comment) && !digitsOrEmojiOnly(comment)
}

func (n *Normalizer) clean(comment, lang string) string {
	s := strings.ToLower(comment)
	s = strings.ReplaceAll(s, "’", "'")
	s = reDollar.ReplaceAllString(s, " ")
	s = rePunct.ReplaceAllString(s, " ")
	s = reDigitRun.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	s = collapseRepeats(s)
	for _, rw := range n.dicts.Contractions[lang] {
		s = rw.Pattern.ReplaceAllString(s, rw.Replace)
	}
	for _, rule := range n.dicts.Acronyms[lang] {
		s = strings.ReplaceAll(s, rule.Phrase, rule.Token)
	}
	s = reApostrophe.ReplaceAllString(s, " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

func (n *Normalizer) filterTokens(tokens []string, lang string) []string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !isAlphanumeric(t) && !isSingleEmoji(t) {
			continue
		}
		if n.dicts.StopWords[lang][t] || n.foldedStops[lang][foldDiacritics(t)] {
			continue
		}
		if runeLen(t) <= 2 && !n.dicts.AcronymTokens[lang][t] && !containsEmoji(t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// collapseRepeats shortens runs of three or more identical letters to a
// single one ("soooo" becomes "so"). Go's regexp has no backreferences,
// so this is a rune scan.
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			if run >= 3 {
				trimRun(&b, prev, run-1)
			}
			prev, run = r, 1
		}
		b.WriteRune(r)
	}
	if run >= 3 {
		trimRun(&b, prev, run-1)
	}
	return b.String()
}

func trimRun(b *strings.Builder, r rune, extra int) {
	s := b.String()
	b.Reset()
	b.WriteString(s[:len(s)-extra*len(string(r))])
}

func hasLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

// digitsOrEmojiOnly reports whether the text is made of digits and
// emoji, ignoring whitespace and punctuation. A thumbs-up-only comment
// still qualifies for scoring.
func digitsOrEmojiOnly(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || unicode.IsPunct(r):
		case unicode.IsDigit(r) || isEmoji(r):
			seen = true
		default:
			return false
		}
	}
	return seen
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isEmoji covers the symbol planes feedback actually contains; pictographs
// and common dingbats all fall under Symbol, other.
func isEmoji(r rune) bool {
	return unicode.Is(unicode.So, r)
}

func containsEmoji(s string) bool {
	for _, r := range s {
		if isEmoji(r) {
			return true
		}
	}
	return false
}

func isSingleEmoji(s string) bool {
	runes := []rune(s)
	return len(runes) == 1 && isEmoji(runes[0])
}

func runeLen(s string) int {
	return len([]rune(s))
}

// foldDiacritics strips combining marks so accented stop words match
// their unaccented spellings.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
