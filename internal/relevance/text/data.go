package text

import "regexp"

// Rewrite is one ordered regex rewrite applied during cleaning.
type Rewrite struct {
	Pattern *regexp.Regexp
	Replace string
}

// AcronymRule substitutes a spelled-out phrase with its acronym token.
// Rules are ordered so longer phrases are applied before their substrings.
type AcronymRule struct {
	Phrase string
	Token  string
}

// Dictionaries holds the frozen lookup data the Normalizer depends on.
// Built once at start-up and treated as read-only afterwards; tests pass
// minimal instances instead of the production tables.
type Dictionaries struct {
	StopWords     map[string]map[string]bool
	Contractions  map[string][]Rewrite
	Acronyms      map[string][]AcronymRule
	AcronymTokens map[string]map[string]bool
	Lemmas        map[string]string
	SpamPatterns  []*regexp.Regexp
}

// DefaultDictionaries returns the production dictionaries.
func DefaultDictionaries() *Dictionaries {
	d := &Dictionaries{
		StopWords: map[string]map[string]bool{
			"en": toSet(enStopWords),
			"fr": toSet(frStopWords),
		},
		Contractions: map[string][]Rewrite{
			"en": enContractions,
			"fr": frContractions,
		},
		Acronyms: map[string][]AcronymRule{
			"en": enAcronyms,
			"fr": frAcronyms,
		},
		Lemmas:       enLemmas,
		SpamPatterns: spamPatterns,
	}
	d.AcronymTokens = map[string]map[string]bool{
		"en": acronymTokens(enAcronyms, "ei", "ui", "t4", "gc"),
		"fr": acronymTokens(frAcronyms, "ae", "sv", "t4", "gc"),
	}
	return d
}

func toSet(words []string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

func acronymTokens(rules []AcronymRule, extra ...string) map[string]bool {
	s := make(map[string]bool, len(rules)+len(extra))
	for _, r := range rules {
		s[r.Token] = true
	}
	for _, t := range extra {
		s[t] = true
	}
	return s
}

// Promotional link patterns and domains that mark a comment as spam.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:bit\.ly|tinyurl\.com|goo\.gl|t\.me|wa\.me|linktr\.ee)/\S+`),
	regexp.MustCompile(`(?i)(?:https?://|www\.)\S+\.(?:ru|cn|xyz|top|click|loan)\b`),
	regexp.MustCompile(`(?i)\b(?:viagra|cialis|casino|free\s+bitcoin|crypto\s+invest\w*|forex\s+signals?)\b`),
	regexp.MustCompile(`(?i)\bearn\s+\$?\d+\s*(?:per|/)\s*(?:day|week|hour)\b`),
}

// English contractions, expanded before acronym substitution. Specific
// forms come before the generic suffix rules that would otherwise
// corrupt them.
var enContractions = []Rewrite{
	{regexp.MustCompile(`\bwon't\b`), "will not"},
	{regexp.MustCompile(`\bcan't\b`), "cannot"},
	{regexp.MustCompile(`\bshan't\b`), "shall not"},
	{regexp.MustCompile(`\bi'm\b`), "i am"},
	{regexp.MustCompile(`\blet's\b`), "let us"},
	{regexp.MustCompile(`n't\b`), " not"},
	{regexp.MustCompile(`'re\b`), " are"},
	{regexp.MustCompile(`'ve\b`), " have"},
	{regexp.MustCompile(`'ll\b`), " will"},
	{regexp.MustCompile(`'d\b`), " would"},
	{regexp.MustCompile(`'s\b`), " is"},
}

// French elisions are dropped rather than expanded.
var frContractions = []Rewrite{
	{regexp.MustCompile(`\bqu'`), "que "},
	{regexp.MustCompile(`\b[cdjlmnst]'`), ""},
}

var enAcronyms = []AcronymRule{
	{"registered retirement savings plan", "rrsp"},
	{"registered retirement income fund", "rrif"},
	{"tax free savings account", "tfsa"},
	{"registered education savings plan", "resp"},
	{"canada emergency response benefit", "cerb"},
	{"guaranteed income supplement", "gis"},
	{"canada revenue agency", "cra"},
	{"canada pension plan", "cpp"},
	{"canada child benefit", "ccb"},
	{"social insurance number", "sin"},
	{"record of employment", "roe"},
	{"notice of assessment", "noa"},
	{"goods and services tax", "gst"},
	{"employment insurance", "ei"},
	{"old age security", "oas"},
	{"my service canada account", "msca"},
	{"direct deposit enrolment", "dde"},
}

var frAcronyms = []AcronymRule{
	{"régime enregistré épargne retraite", "reer"},
	{"compte épargne libre impôt", "celi"},
	{"prestation canadienne urgence", "pcu"},
	{"supplément de revenu garanti", "srg"},
	{"agence du revenu du canada", "arc"},
	{"régime de pensions du canada", "rpc"},
	{"allocation canadienne pour enfants", "ace"},
	{"numéro assurance sociale", "nas"},
	{"relevé emploi", "re"},
	{"avis de cotisation", "adc"},
	{"taxe sur les produits et services", "tps"},
	{"assurance emploi", "ae"},
	{"sécurité de la vieillesse", "sv"},
	{"mon dossier service canada", "mdsc"},
}

// English lemma dictionary. Identity mapping is assumed for anything
// absent; values must themselves be fixed points so a second pass is a
// no-op.
var enLemmas = map[string]string{
	"found": "find", "finding": "find", "finds": "find",
	"paid": "pay", "paying": "pay", "pays": "pay",
	"payments": "payment",
	"said": "say", "says": "say", "saying": "say",
	"went": "go", "goes": "go", "going": "go", "gone": "go",
	"got": "get", "gets": "get", "getting": "get",
	"needs": "need", "needed": "need", "needing": "need",
	"takes": "take", "taking": "take", "took": "take", "taken": "take",
	"taxes": "tax", "taxed": "tax",
	"benefits": "benefit",
	"forms": "form",
	"pages": "page",
	"works": "work", "working": "work", "worked": "work",
	"applied": "apply", "applying": "apply", "applies": "apply",
	"applications": "application",
	"filed": "file", "filing": "file", "files": "file",
	"returns": "return", "returned": "return",
	"accounts": "account",
	"passwords": "password",
	"errors": "error",
	"links": "link", "linked": "link",
	"numbers": "number",
	"waiting": "wait", "waited": "wait",
	"trying": "try", "tried": "try", "tries": "try",
	"calls": "call", "called": "call", "calling": "call",
	"asked": "ask", "asking": "ask", "asks": "ask",
	"answers": "answer", "answered": "answer",
	"questions": "question",
	"updates": "update", "updated": "update",
	"changes": "change", "changed": "change",
	"searches": "search", "searched": "search", "searching": "search",
	"helps": "help", "helped": "help", "helpful": "help",
	"confusing": "confuse", "confused": "confuse",
	"loading": "load", "loaded": "load", "loads": "load",
}

var enStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "you", "your", "yours",
	"he", "him", "his", "she", "her", "hers", "it", "its", "they", "them",
	"their", "theirs", "am", "is", "are", "was", "were", "be", "been",
	"being", "do", "does", "did", "doing", "have", "has", "had", "having",
	"a", "an", "the", "and", "or", "but", "if", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below", "to",
	"from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so", "than",
	"too", "very", "can", "cannot", "will", "just", "would", "should",
	"could", "shall",
	"this", "that", "these", "those", "what", "which", "who", "whom",
}

var frStopWords = []string{
	"je", "tu", "il", "elle", "on", "nous", "vous", "ils", "elles",
	"me", "te", "se", "moi", "toi", "lui", "leur", "eux",
	"le", "la", "les", "un", "une", "des", "de", "du", "au", "aux",
	"ce", "cet", "cette", "ces", "mon", "ma", "mes", "ton", "ta", "tes",
	"son", "sa", "ses", "notre", "votre", "nos", "vos", "leurs",
	"et", "ou", "mais", "donc", "or", "ni", "car", "ne", "pas", "plus",
	"que", "qui", "quoi", "dont", "où", "quand", "comment", "pourquoi",
	"à", "dans", "par", "pour", "sur", "sous", "avec", "sans", "entre",
	"vers", "chez", "est", "sont", "était", "étaient", "être", "été",
	"avoir", "ai", "as", "avons", "avez", "ont", "avait", "suis", "es",
	"fait", "faire", "faut", "peut", "veux", "voudrais", "aimerais",
	"très", "aussi", "comme", "si", "tout", "tous", "toute", "toutes",
	"y", "en", "là", "ici", "cela", "ça", "oui", "non",
}
