// Package pagination bounds the service's list endpoints: note worklists,
// version trails and FHIR Composition searches. Windows are limit/offset;
// the FHIR routes use the standard _count/_offset parameter names, the JSON
// API uses limit/offset, and both funnel through FromContext.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	// DefaultLimit is the editor worklist page size.
	DefaultLimit = 20

	// MaxLimit caps bulk pulls; a long-stay patient can accumulate hundreds
	// of notes and the chart review screen never needs more than a page.
	MaxLimit = 100
)

// Params is the requested window over a note or Composition listing.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads the window from the request, accepting both the JSON API
// names and their FHIR search aliases. Out-of-range values are clamped rather
// than rejected.
func FromContext(c echo.Context) Params {
	limit := intParam(c, "_count", "limit")
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := intParam(c, "_offset", "offset")
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

func intParam(c echo.Context, names ...string) int {
	for _, name := range names {
		if v := c.QueryParam(name); v != "" {
			n, err := strconv.Atoi(v)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// HasNext reports whether notes remain past this window.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious reports whether this window starts past the first note.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset is the offset of the following window.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset is the offset of the preceding window, floored at zero.
func (p Params) PreviousOffset() int {
	if prev := p.Offset - p.Limit; prev > 0 {
		return prev
	}
	return 0
}

// Response is the JSON API list envelope.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
