package shared

import "math"

// Pagination contains metadata for paginated listings. The page count is
// always derived from the same total that produced the page slice.
type Pagination struct {
	Page      int
	PageSize  int
	Total     int
	PageCount int
}

// NewPagination computes pagination metadata for a 1-based page number.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	pageCount := int(math.Ceil(float64(total) / float64(pageSize)))
	return Pagination{Page: page, PageSize: pageSize, Total: total, PageCount: pageCount}
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
