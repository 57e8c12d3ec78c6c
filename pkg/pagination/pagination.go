// Package pagination holds the page request/envelope shared by every list endpoint.
package pagination

import (
	"math"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest is a normalized list query: filter by Search, then page.
type PageRequest struct {
	Page    int
	PerPage int
	Search  string
}

// NewPageRequest normalizes raw values; non-positive numbers fall back to the defaults.
func NewPageRequest(page, perPage int, search string) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	// Keep (page-1)*perPage inside int.
	if maxPage := math.MaxInt / perPage; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, PerPage: perPage, Search: strings.TrimSpace(search)}
}

// Offset is the number of filtered rows before the requested page.
// It never overflows for a request built by NewPageRequest.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Page is the envelope returned by list endpoints.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// NewPage wraps one page of rows. data may be nil; it is always encoded as a JSON array.
func NewPage[T any](data []T, req PageRequest, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}

	p := &Page[T]{
		Data:        data,
		CurrentPage: req.Page,
		LastPage:    LastPage(total, req.PerPage),
		PerPage:     req.PerPage,
		Total:       total,
	}

	if len(data) > 0 {
		from := req.Offset() + 1
		to := req.Offset() + len(data)
		p.From, p.To = &from, &to
	}
	return p
}

// Map converts the rows of a page while keeping its metadata.
func Map[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	out := make([]R, len(p.Data))
	for i, item := range p.Data {
		out[i] = fn(item)
	}
	return &Page[R]{
		Data:        out,
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		From:        p.From,
		To:          p.To,
	}
}

// Beyond reports whether the page starts after the last of total rows.
func (r PageRequest) Beyond(total int64) bool {
	return int64(r.Page-1) >= int64(LastPage(total, r.PerPage))
}

// LastPage is ceil(total/perPage), never below 1.
func LastPage(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// LikePattern builds a case-folded substring pattern for `LIKE ? ESCAPE '!'`,
// escaping wildcard characters so the search term matches literally.
func LikePattern(search string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + replacer.Replace(strings.ToLower(search)) + "%"
}
