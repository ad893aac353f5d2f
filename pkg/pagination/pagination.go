package pagination

// Meta is the windowing block attached to every list response.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

// NewMeta derives pagination metadata for a window. limit must be positive;
// callers clamp it before paging.
func NewMeta(page, limit int, totalCount int64) Meta {
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	m := Meta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
	if m.HasNext {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPrev {
		prev := page - 1
		m.PrevPage = &prev
	}
	return m
}
