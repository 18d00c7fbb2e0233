package dispatch

const (
	DefaultPage     = 1
	DefaultPageSize = 100
)

// PageRequest carries the canonical "page N of size S" query parameters.
// The form tags let the transport layer bind it straight from the query
// string.
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalized clamps sub-floor values to the defaults. Out-of-range paging
// input is tolerated rather than rejected.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset is the row offset for the normalized page.
func (p PageRequest) Offset() int {
	n := p.Normalized()
	return (n.Page - 1) * n.PageSize
}

// PageResult is one page of a larger result set. TotalCount is the
// unpaginated size; len(Items) never exceeds PageSize.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// NewPageResult assembles a page, echoing the normalized paging params.
// A nil items slice becomes an empty one so the wire form is always an
// array, never null.
func NewPageResult[T any](items []T, totalCount int, p PageRequest) PageResult[T] {
	n := p.Normalized()
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       n.Page,
		PageSize:   n.PageSize,
	}
}
