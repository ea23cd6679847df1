package query

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Page holds 1-indexed offset/limit pagination parameters.
type Page struct {
	Number int
	Limit  int
}

// NewPage normalizes raw pagination input. Values below 1 clamp to 1 so the
// offset math is always well defined; callers supply DefaultLimit when the
// request carries no limit at all.
func NewPage(number, limit int) Page {
	if limit < 1 {
		limit = 1
	}
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Meta is the page metadata reported alongside a listing.
type Meta struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

// NewMeta computes page metadata from a total match count. TotalPages is 0
// when nothing matches; a page past the end simply yields an empty slice.
func NewMeta(total int, p Page) Meta {
	return Meta{
		Total:       total,
		TotalPages:  (total + p.Limit - 1) / p.Limit,
		CurrentPage: p.Number,
	}
}
