// Package pagination implements fixed-size page math for list views.
//
// The behaviour mirrors what users of the site observe:
//   - pages hold at most PageSize items
//   - the page number comes from the ?page= query parameter, default 1
//   - a non-numeric or negative page number falls back to page 1
//   - a page number past the end clamps to the LAST valid page
//     (so /?page=9999 shows the final page instead of an empty one)
//   - an empty collection still has exactly one (empty) page
//
// The package deals only in numbers. Callers run a COUNT query, resolve the
// page with New, and then use Offset/Limit in their own SELECT.
package pagination

import "strconv"

// PageSize is the number of items on a full page.
const PageSize = 10

// Page describes one resolved window into an ordered collection.
// Number is always in [1, TotalPages] after New.
type Page struct {
	Number     int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`

	size int
}

// ParseNumber parses a raw ?page= value. Anything that isn't a positive
// integer becomes page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// New resolves a requested page number against a collection of totalItems.
// Out-of-range numbers clamp to the last valid page; an empty collection
// yields page 1 of 1.
func New(totalItems, requested int) Page {
	return newWithSize(totalItems, requested, PageSize)
}

func newWithSize(totalItems, requested, size int) Page {
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if requested < 1 {
		requested = 1
	}
	if requested > totalPages {
		requested = totalPages
	}

	return Page{
		Number:     requested,
		TotalPages: totalPages,
		TotalItems: totalItems,
		size:       size,
	}
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.size
}

// Limit is the maximum number of rows on this page.
func (p Page) Limit() int {
	return p.size
}
