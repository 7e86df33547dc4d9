package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chartnote/chartnote/internal/platform/auth"
)

func setupHandler(t *testing.T) (*echo.Echo, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	h := NewHandler(NewService(repo), nil)

	e := echo.New()
	api := e.Group("/api/v1")
	fhirGroup := e.Group("/fhir")
	h.RegisterRoutes(api, fhirGroup)
	return e, repo
}

// requireRole in the route chain reads roles from the request context; tests
// inject an admin identity the way the dev middleware does.
func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(contextWithAdmin(req.Context()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetNote(t *testing.T) {
	e, _ := setupHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes",
		`{"patient_id":"5c3bde14-93f7-4ee7-9b38-7f746d1a4c17","note_type":"Progress Note","service":"Hospitalist","author":"Dr. A","content":"Stable overnight."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Note        Note              `json:"note"`
		Placeholder placeholderReport `json:"placeholder"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Note.Status != StatusDraft {
		t.Errorf("status = %q", created.Note.Status)
	}
	if !created.Placeholder.CanSign {
		t.Error("clean content should be signable")
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/notes/"+created.Note.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestSignRejectionSurfacesCount(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "needs *** fill *** and *** more ***", StatusDraft)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes/"+n.ID.String()+"/status",
		fmt.Sprintf(`{"status":"signed","expected_version_id":%d}`, n.VersionID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"placeholder_count":2`) {
		t.Errorf("missing placeholder count in body: %s", rec.Body.String())
	}
}

func TestUpdateContentReturnsWarning(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "original", StatusDraft)

	rec := doJSON(e, http.MethodPut, "/api/v1/notes/"+n.ID.String()+"/content",
		fmt.Sprintf(`{"content":"edited","editor":"Dr. B","expected_version_id":%d}`, n.VersionID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"authorship_warning":true`) {
		t.Errorf("missing authorship warning: %s", rec.Body.String())
	}
}

func TestStaleEditConflicts(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "v1", StatusDraft)

	body := fmt.Sprintf(`{"content":"v2","editor":"Dr. A","expected_version_id":%d}`, n.VersionID)
	if rec := doJSON(e, http.MethodPut, "/api/v1/notes/"+n.ID.String()+"/content", body); rec.Code != http.StatusOK {
		t.Fatalf("first edit: %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodPut, "/api/v1/notes/"+n.ID.String()+"/content", body); rec.Code != http.StatusConflict {
		t.Fatalf("stale edit status = %d, want 409", rec.Code)
	}
}

func TestAddendumEndpointRequiresSigned(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "draft text", StatusDraft)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes/"+n.ID.String()+"/addendums",
		`{"author":"Dr. E","author_role":"physician","content":"late addition"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPreviewReportsPlaceholders(t *testing.T) {
	e, _ := setupHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes/preview",
		`{"form":{"subjective":"Feeling better."}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Content     string            `json:"content"`
		Placeholder placeholderReport `json:"placeholder"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.Content, "SUBJECTIVE:") {
		t.Error("preview missing subjective section")
	}
	if out.Placeholder.CanSign {
		t.Error("mostly empty form should not be signable")
	}
}

func TestPreviewRejectsUnknownSection(t *testing.T) {
	e, _ := setupHandler(t)
	rec := doJSON(e, http.MethodPost, "/api/v1/notes/preview",
		`{"form":{},"order":["subjective","bogus"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompositionFHIRProjection(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "final content", StatusSigned)

	rec := doJSON(e, http.MethodGet, "/fhir/Composition/"+n.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resource map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resource); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resource["resourceType"] != "Composition" {
		t.Errorf("resourceType = %v", resource["resourceType"])
	}
	if resource["status"] != "final" {
		t.Errorf("signed note should project as final, got %v", resource["status"])
	}
}

func TestCompositionFHIRPendedCarriesStatusExtension(t *testing.T) {
	e, repo := setupHandler(t)
	n := newTestNote(repo, t, "awaiting attending review", StatusPended)

	rec := doJSON(e, http.MethodGet, "/fhir/Composition/"+n.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resource map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resource); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resource["status"] != "preliminary" {
		t.Errorf("pended note should project as preliminary, got %v", resource["status"])
	}
	under, ok := resource["_status"].(map[string]interface{})
	if !ok {
		t.Fatalf("pended note missing _status element: %v", resource)
	}
	exts, _ := under["extension"].([]interface{})
	if len(exts) != 1 {
		t.Fatalf("extension = %v, want one entry", under["extension"])
	}
	ext := exts[0].(map[string]interface{})
	if ext["url"] != noteStatusExtensionURL || ext["valueCode"] != StatusPended {
		t.Errorf("unexpected extension: %v", ext)
	}
}

func TestCompositionFHIRPreliminarySearchIncludesPended(t *testing.T) {
	e, repo := setupHandler(t)
	newTestNote(repo, t, "drafting", StatusDraft)
	newTestNote(repo, t, "pended for cosign", StatusPended)
	newTestNote(repo, t, "done", StatusSigned)

	rec := doJSON(e, http.MethodGet, "/fhir/Composition?status=preliminary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var bundle map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if total, _ := bundle["total"].(float64); int(total) != 2 {
		t.Errorf("total = %v, want draft and pended both matched", bundle["total"])
	}
}

func TestCompositionFHIRSearchBundle(t *testing.T) {
	e, repo := setupHandler(t)
	newTestNote(repo, t, "a", StatusSigned)
	newTestNote(repo, t, "b", StatusSigned)

	rec := doJSON(e, http.MethodGet, "/fhir/Composition?status=final", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var bundle map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bundle["resourceType"] != "Bundle" || bundle["type"] != "searchset" {
		t.Fatalf("unexpected bundle: %v", bundle)
	}
	if total, _ := bundle["total"].(float64); int(total) != 2 {
		t.Errorf("total = %v, want 2", bundle["total"])
	}

	// a one-note window over two notes pages forward
	rec = doJSON(e, http.MethodGet, "/fhir/Composition?status=final&_count=1", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	links, _ := bundle["link"].([]interface{})
	foundNext := false
	for _, l := range links {
		lm := l.(map[string]interface{})
		if lm["relation"] == "next" {
			foundNext = true
			if !strings.Contains(lm["url"].(string), "_offset=1") {
				t.Errorf("next link = %v, want _offset=1", lm["url"])
			}
		}
	}
	if !foundNext {
		t.Error("paged search bundle missing next link")
	}
}

// contextWithAdmin stamps the identity keys RequireRole and the handlers
// read, mirroring DevAuthMiddleware.
func contextWithAdmin(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, auth.UserIDKey, "test-user")
	ctx = context.WithValue(ctx, auth.UserNameKey, "Dr. Test")
	return context.WithValue(ctx, auth.UserRolesKey, []string{"admin"})
}
