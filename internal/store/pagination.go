package store

import "math"

// Page window defaults.
const (
	DefaultBookLimit   = 10
	DefaultReviewLimit = 5
	MaxPageLimit       = 100
)

// PageParams is a 1-based offset pagination window.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams returns a validated window, falling back to defaultLimit
// when limit is unset.
func NewPageParams(page, limit, defaultLimit int) PageParams {
	p := PageParams{Page: page, Limit: limit}
	p.Validate(defaultLimit)
	return p
}

// Validate fills in defaults and clamps the limit to MaxPageLimit.
func (p *PageParams) Validate(defaultLimit int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset returns the number of records to skip, (page-1)*limit.
// Saturates instead of overflowing for absurd page numbers.
func (p PageParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt32/p.Limit {
		return math.MaxInt32
	}
	return (p.Page - 1) * p.Limit
}
