package relevance

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Filter types accepted by a RelevanceQuery.
const (
	FilterPage    = "page"
	FilterTask    = "task"
	FilterProject = "project"
)

var validate = validator.New()

// RelevanceQuery is the composite fingerprint of one engine request:
// date range, optional entity filter and normalization strength. Type
// and ID are mutually required.
type RelevanceQuery struct {
	Start                 time.Time `validate:"required"`
	End                   time.Time `validate:"required"`
	Type                  string    `validate:"required_with=ID,omitempty,oneof=page task project"`
	ID                    string    `validate:"required_with=Type"`
	NormalizationStrength float64
}

// Validate enforces the query contract before any cache or storage work.
func (q RelevanceQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				switch {
				case fe.Tag() == "required_with":
					return ErrFilterContract
				case fe.Field() == "Type":
					return ErrInvalidFilterType
				case fe.Field() == "Start" || fe.Field() == "End":
					return ErrDateRange
				}
			}
		}
		return err
	}
	if q.End.Before(q.Start) {
		return ErrDateRange
	}
	return nil
}

// Overview reports whether the query aggregates the whole corpus. The
// overview shape is intentionally never cached: it would otherwise serve
// stale global results for the full TTL.
func (q RelevanceQuery) Overview() bool {
	return q.Type == "" && q.ID == ""
}

// CacheKey builds the composite cache key for a namespace. Dates are
// truncated to day granularity so every request within the same day for
// the same filter shares one entry.
func (q RelevanceQuery) CacheKey(namespace string) string {
	parts := []string{
		namespace,
		q.Start.UTC().Format("2006-01-02") + "-" + q.End.UTC().Format("2006-01-02"),
	}
	if q.Type != "" {
		parts = append(parts, q.Type)
	}
	if q.ID != "" {
		parts = append(parts, q.ID)
	}
	if q.NormalizationStrength > 0 {
		parts = append(parts, "n"+strconv.FormatFloat(q.NormalizationStrength, 'f', 2, 64))
	}
	return strings.Join(parts, ":")
}
