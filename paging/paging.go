/*
Package paging slices lists into fixed-size pages for chat keyboards.

PURPOSE:
  Every picker in the chat UI (products, users, pending requests) shows a
  fixed number of rows per page with prev/next buttons. This package owns
  the page arithmetic so every picker clamps and labels pages the same way.

CLAMPING:
  Page requests are clamped into the valid range rather than rejected. A
  stale button pointing past the end of a shrunken list lands on the last
  page; page 0 or a negative page lands on the first. An empty list still
  has exactly one (empty) page.
*/
package paging

// DefaultPerPage is the row count used by every picker unless configured
// otherwise.
const DefaultPerPage = 8

// Page is one window into a list, with the navigation facts a keyboard
// builder needs.
type Page[T any] struct {
	Items   []T
	Number  int // 1-based, already clamped
	Total   int // total pages, always >= 1
	HasPrev bool
	HasNext bool
}

// Paginate returns the requested page of items. The page number is clamped
// into [1, Total]; perPage values below 1 fall back to DefaultPerPage.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	total := (len(items) + perPage - 1) / perPage
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:   items[start:end],
		Number:  page,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < total,
	}
}
