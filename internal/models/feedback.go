package models

import "time"

// Supported feedback languages.
const (
	LangEN = "en"
	LangFR = "fr"
)

// RawComment is one user-submitted feedback entry as stored in the
// feedback collection. Words is a derived field attached during
// preprocessing; a nil Words means the comment was rejected or not yet
// normalized and must be skipped by scoring.
type RawComment struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url"`
	Lang     string    `json:"lang"`
	Comment  string    `json:"comment"`
	Theme    string    `json:"theme,omitempty"`
	Page     string    `json:"page,omitempty"`
	Tasks    []string  `json:"tasks,omitempty"`
	Projects []string  `json:"projects,omitempty"`
	Words    []string  `json:"words,omitempty"`
}

// WordScore is the relevance score of one distinct word within a
// language partition. Recomputed on every cache miss, never mutated.
type WordScore struct {
	Word             string  `json:"word"`
	Count            int     `json:"count"`
	Spread           int     `json:"spread"`
	Frequency        float64 `json:"frequency"`
	InverseFrequency float64 `json:"inverse_frequency"`
	Score            float64 `json:"score"`
}

// ScoredComment is a RawComment with its aggregate relevance scores.
// The embedded Words field is always nil on output.
type ScoredComment struct {
	RawComment
	TfIdf           float64 `json:"tf_idf"`
	TfIdfNormalized float64 `json:"tf_idf_normalized"`
}

// LanguageResult holds the ranked comments and words of one language
// partition.
type LanguageResult struct {
	Comments []ScoredComment `json:"comments"`
	Words    []WordScore     `json:"words"`
}

// RelevanceResult is the full engine output for one query.
type RelevanceResult struct {
	EN LanguageResult `json:"en"`
	FR LanguageResult `json:"fr"`
}
