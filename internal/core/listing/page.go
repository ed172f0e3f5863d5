package listing

import (
	"math"
	"strconv"
	"strings"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 15

// Pagination is a 1-based page window.
type Pagination struct {
	Number int
	Size   int
}

// NewPagination clamps number to >= 1. There is no upper bound:
// a page past the end is simply empty.
func NewPagination(number int) (Pagination, bool) {
	clamped := false
	if number < 1 {
		number = 1
		clamped = true
	}
	return Pagination{Number: number, Size: PageSize}, clamped
}

// ParsePage reads the "page" request value. Missing or malformed values mean page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Limit returns the LIMIT value.
func (p Pagination) Limit() uint64 {
	return uint64(p.Size)
}

// Offset returns the OFFSET value. Pages whose offset would not fit in an
// int64 saturate to the largest representable window, which is past the end
// of any real record set.
func (p Pagination) Offset() uint64 {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	skipped := uint64(p.Number - 1)
	if last := uint64(math.MaxInt64) / uint64(p.Size); skipped > last {
		skipped = last
	}
	return skipped * uint64(p.Size)
}

// Page is one slice of a listing.
type Page[T any] struct {
	Records    []T   `json:"records"`
	Number     int   `json:"page"`
	Size       int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
}

// TotalPages returns the number of non-empty pages.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	pages := int(p.TotalCount) / p.Size
	if int(p.TotalCount)%p.Size > 0 {
		pages++
	}
	return pages
}
