package pagination

import (
	"fmt"

	"converge-backend/internal/apperr"
)

// Page describes where a slice sits within the full result set.
type Page struct {
	Pages       int  `json:"pages"`
	QueryTotal  int  `json:"query_total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	CurrentPage int  `json:"current_page"`
}

// InvalidPageError is returned for a page or page size below 1.
func InvalidPageError(page, perPage int) error {
	return apperr.Validation(fmt.Sprintf("Invalid page request: page=%d per_page=%d, both must be at least 1", page, perPage))
}

// Params are the optional page arguments of a query. Both nil means the
// caller wants the whole result set.
type Params struct {
	Page    *int
	PerPage *int
}

// Requested reports whether pagination applies. Giving only one of the two
// arguments is an error.
func (p Params) Requested() (bool, error) {
	switch {
	case p.Page == nil && p.PerPage == nil:
		return false, nil
	case p.Page == nil || p.PerPage == nil:
		return false, apperr.Validation("page and per_page must be provided together")
	}
	return true, nil
}

// Paginate returns the items of the 1-indexed page. A page past the end yields
// an empty slice with the metadata still describing the full set.
func Paginate[T any](items []T, page, perPage int) ([]T, Page, error) {
	if page < 1 || perPage < 1 {
		return nil, Page{}, InvalidPageError(page, perPage)
	}

	total := len(items)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}

	meta := Page{
		Pages:       pages,
		QueryTotal:  total,
		HasNext:     page < pages,
		HasPrevious: page > 1,
		CurrentPage: page,
	}

	// page-1 < pages keeps (page-1)*perPage below total
	if page-1 >= pages {
		return []T{}, meta, nil
	}
	start := (page - 1) * perPage
	end := total
	if perPage < total-start {
		end = start + perPage
	}
	return items[start:end], meta, nil
}
