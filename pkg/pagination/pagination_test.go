package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func listContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContextWindows(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"worklist default", "", DefaultLimit, 0},
		{"json api names", "?limit=50&offset=10", 50, 10},
		{"fhir search aliases", "?_count=5&_offset=40", 5, 40},
		{"fhir alias wins over json name", "?_count=5&limit=50", 5, 0},
		{"oversized pull clamped", "?limit=5000", MaxLimit, 0},
		{"negative window clamped", "?limit=-1&offset=-20", DefaultLimit, 0},
		{"garbage ignored", "?limit=lots&offset=some", DefaultLimit, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := FromContext(listContext(t, tc.query))
			if p.Limit != tc.limit || p.Offset != tc.offset {
				t.Errorf("got limit=%d offset=%d, want %d/%d", p.Limit, p.Offset, tc.limit, tc.offset)
			}
		})
	}
}

func TestWindowNavigation(t *testing.T) {
	// third page of a 55-note patient history at the default page size
	p := Params{Limit: DefaultLimit, Offset: 40}

	if !p.HasNext(55) {
		t.Error("15 notes remain, HasNext should be true")
	}
	if p.HasNext(55 - 15) {
		t.Error("window past the end, HasNext should be false")
	}
	if !p.HasPrevious() {
		t.Error("third page has earlier notes")
	}
	if p.NextOffset() != 60 {
		t.Errorf("NextOffset = %d, want 60", p.NextOffset())
	}
	if p.PreviousOffset() != 20 {
		t.Errorf("PreviousOffset = %d, want 20", p.PreviousOffset())
	}

	first := Params{Limit: DefaultLimit, Offset: 0}
	if first.HasPrevious() {
		t.Error("first page has no previous window")
	}
	short := Params{Limit: DefaultLimit, Offset: 10}
	if short.PreviousOffset() != 0 {
		t.Errorf("partial first step should floor at 0, got %d", short.PreviousOffset())
	}
}

func TestNewResponseEnvelope(t *testing.T) {
	notes := []string{"note-a", "note-b"}

	r := NewResponse(notes, 12, 2, 0)
	if r.Total != 12 || !r.HasMore {
		t.Errorf("first window of 12: total=%d has_more=%v", r.Total, r.HasMore)
	}

	last := NewResponse(notes, 12, 2, 10)
	if last.HasMore {
		t.Error("final window should not report has_more")
	}
}
