package repogen

// Paged holds one page of records together with the paging metadata of the
// query that produced it.
type Paged[T any] struct {
	// Items holds the records of the current page.
	Items []T `json:"items"`
	// TotalCount is the number of records matching the query across all pages.
	TotalCount int64 `json:"total_count"`
	// Page is the current page number, 1-indexed by convention.
	Page int64 `json:"page"`
	// PerPage is the requested number of records per page.
	PerPage int64 `json:"per_page"`
}

// NewPaged returns a Paged result. page and perPage are stored as given.
func NewPaged[T any](items []T, totalCount, page, perPage int64) *Paged[T] {
	return &Paged[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PerPage:    perPage,
	}
}

// TotalPages returns the number of pages needed to hold TotalCount records,
// or 0 if PerPage is not positive.
func (p *Paged[T]) TotalPages() int64 {
	if p.PerPage <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + p.PerPage - 1) / p.PerPage
}

// HasNext reports whether a page follows the current one.
func (p *Paged[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}

// Offset converts a 1-indexed page into the number of records to skip.
// Pages below 1 are treated as the first page.
func Offset(page, perPage int64) int64 {
	if page < 1 || perPage <= 0 {
		return 0
	}
	return (page - 1) * perPage
}
