// Package pagination slices a listing into fixed-size, 1-indexed pages.
package pagination

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 10

// Page is one visible slice of a listing.
type Page[T any] struct {
	Items      []T
	TotalPages int
	// Index is the 1-based page actually shown after clamping.
	Index int
	// Start and End are the 1-based inclusive bounds of Items within the
	// listing, both zero when the listing is empty.
	Start int
	End   int
	Total int
}

// HasPrevious reports whether a previous page exists.
func (p Page[T]) HasPrevious() bool { return p.Index > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Index < p.TotalPages }

// TotalPages returns ceil(n/pageSize).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the page at pageIndex. An index past the last page
// resets to page 1, as does an index below 1.
func Paginate[T any](items []T, pageSize, pageIndex int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(items), pageSize)
	index := Clamp(pageIndex, total)

	p := Page[T]{TotalPages: total, Index: index, Total: len(items), Items: []T{}}
	if total == 0 {
		return p
	}

	start := (index - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end:end]
	p.Start = start + 1
	p.End = end
	return p
}

// Clamp returns a valid page index for a listing of totalPages pages.
func Clamp(pageIndex, totalPages int) int {
	if pageIndex < 1 || (totalPages > 0 && pageIndex > totalPages) {
		return 1
	}
	if totalPages == 0 {
		return 1
	}
	return pageIndex
}

// Next moves forward one page, staying on the last page.
func Next(pageIndex, totalPages int) int {
	if pageIndex >= totalPages {
		return Clamp(pageIndex, totalPages)
	}
	return pageIndex + 1
}

// Previous moves back one page, staying on page 1.
func Previous(pageIndex int) int {
	if pageIndex <= 1 {
		return 1
	}
	return pageIndex - 1
}
