// Package pagination implements offset pagination with the classic
// page/per_page envelope.
package pagination

// DefaultPerPage applies when the client sends no per_page value.
const DefaultPerPage = 10

// MaxPerPage caps a single page.
const MaxPerPage = 250

// Params are the client-supplied paging inputs.
type Params struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// Normalize clamps the params into valid bounds.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Page is one page of results plus the paging envelope.
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// MapPage converts a page's data while keeping the envelope intact.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	data := make([]U, 0, len(page.Data))
	for _, item := range page.Data {
		data = append(data, fn(item))
	}
	return Page[U]{
		Data:        data,
		Total:       page.Total,
		PerPage:     page.PerPage,
		CurrentPage: page.CurrentPage,
		LastPage:    page.LastPage,
	}
}

// NewPage assembles the envelope for one page of data.
func NewPage[T any](data []T, total int64, params Params) Page[T] {
	n := params.Normalize()
	if data == nil {
		data = []T{}
	}
	lastPage := int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page[T]{
		Data:        data,
		Total:       total,
		PerPage:     n.PerPage,
		CurrentPage: n.Page,
		LastPage:    lastPage,
	}
}
