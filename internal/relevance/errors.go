package relevance

import "errors"

var (
	// ErrFilterContract marks a query supplying a filter type without an
	// id or vice versa. Contract violations are surfaced immediately and
	// must stay distinguishable from empty results.
	ErrFilterContract = errors.New("filter type and id must be supplied together")

	// ErrInvalidFilterType marks an unknown filter type.
	ErrInvalidFilterType = errors.New("filter type must be one of page, task or project")

	// ErrDateRange marks a query missing its date range.
	ErrDateRange = errors.New("a start and end date are required")
)
