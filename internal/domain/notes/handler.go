package notes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/chartnote/chartnote/internal/domain/chart"
	"github.com/chartnote/chartnote/internal/platform/auth"
	"github.com/chartnote/chartnote/internal/platform/fhir"
	"github.com/chartnote/chartnote/pkg/pagination"
)

type Handler struct {
	svc   *Service
	chart *chart.Service
}

func NewHandler(svc *Service, chartSvc *chart.Service) *Handler {
	return &Handler{svc: svc, chart: chartSvc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.POST("/notes", h.Create)
	g.GET("/notes", h.List)
	g.GET("/notes/:id", h.Get)
	g.PUT("/notes/:id/content", h.UpdateContent)
	g.POST("/notes/:id/status", h.Transition)
	g.POST("/notes/:id/cosign", h.Cosign)
	g.POST("/notes/:id/attest", h.Attest)
	g.POST("/notes/:id/addendums", h.AddAddendum)
	g.GET("/notes/:id/addendums", h.ListAddendums)
	g.GET("/notes/:id/versions", h.Versions)
	g.POST("/notes/preview", h.Preview)

	fhirRead := fhirGroup.Group("", auth.RequireRole("admin", "physician", "nurse"))
	fhirRead.GET("/Composition", h.SearchCompositionsFHIR)
	fhirRead.GET("/Composition/:id", h.GetCompositionFHIR)
}

// placeholderReport is attached to responses whose content feeds the sign
// gate, so clients can surface remaining work without re-scanning.
type placeholderReport struct {
	CanSign bool  `json:"can_sign"`
	Count   int   `json:"placeholder_count"`
	Offsets []int `json:"placeholder_offsets,omitempty"`
}

func reportFor(content string) placeholderReport {
	return placeholderReport{
		CanSign: !ContainsPlaceholder(content),
		Count:   PlaceholderCount(content),
		Offsets: LocatePlaceholders(content),
	}
}

func noteID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func serviceError(err error) error {
	var unresolved *UnresolvedPlaceholdersError
	switch {
	case errors.As(err, &unresolved):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             unresolved.Error(),
			"placeholder_count": unresolved.Count,
		})
	case errors.Is(err, ErrStaleNote):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotSigned), errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var n Note
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if n.Author == "" {
		n.Author = auth.UserNameFromContext(c.Request().Context())
	}
	if err := h.svc.Create(c.Request().Context(), &n); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"note":        n,
		"placeholder": reportFor(n.Content),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	var patientID *uuid.UUID
	if p := c.QueryParam("patient_id"); p != "" {
		pid, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patientID = &pid
	}
	var statuses []string
	if st := c.QueryParam("status"); st != "" {
		statuses = []string{st}
	}
	items, total, err := h.svc.List(c.Request().Context(), patientID, statuses, pg.Limit, pg.Offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type updateContentRequest struct {
	Content           string `json:"content"`
	Editor            string `json:"editor"`
	ExpectedVersionID int    `json:"expected_version_id"`
}

func (h *Handler) UpdateContent(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var req updateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Editor == "" {
		req.Editor = auth.UserNameFromContext(c.Request().Context())
	}
	n, warning, err := h.svc.UpdateContent(c.Request().Context(), id, req.Content, req.Editor, req.ExpectedVersionID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"note":               n,
		"authorship_warning": warning,
		"placeholder":        reportFor(n.Content),
	})
}

type transitionRequest struct {
	Status            string `json:"status"`
	ExpectedVersionID int    `json:"expected_version_id"`
}

func (h *Handler) Transition(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.svc.Transition(c.Request().Context(), id, req.Status, req.ExpectedVersionID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, n)
}

type endorseRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (h *Handler) Cosign(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var req endorseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		req.Name = auth.UserNameFromContext(c.Request().Context())
	}
	cs, err := h.svc.Cosign(c.Request().Context(), id, req.Name, req.Role)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, cs)
}

func (h *Handler) Attest(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var req endorseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		req.Name = auth.UserNameFromContext(c.Request().Context())
	}
	at, err := h.svc.Attest(c.Request().Context(), id, req.Name, req.Role)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, at)
}

type addendumRequest struct {
	Author     string `json:"author"`
	AuthorRole string `json:"author_role"`
	Content    string `json:"content"`
}

func (h *Handler) AddAddendum(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var req addendumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Author == "" {
		req.Author = auth.UserNameFromContext(c.Request().Context())
	}
	ad, err := h.svc.AddAddendum(c.Request().Context(), id, req.Author, req.AuthorRole, req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, ad)
}

func (h *Handler) ListAddendums(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, n.Addendums)
}

func (h *Handler) Versions(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	versions, err := h.svc.Versions(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, versions)
}

type previewRequest struct {
	PatientID *uuid.UUID  `json:"patient_id,omitempty"`
	Form      FormState   `json:"form"`
	Order     []SectionID `json:"order,omitempty"`
	Disabled  []SectionID `json:"disabled,omitempty"`
}

// Preview assembles the requested sections into a document and reports its
// placeholder state, without persisting anything.
func (h *Handler) Preview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	asm := NewAssembler()
	if len(req.Order) > 0 {
		known := make(map[SectionID]bool)
		for _, id := range asm.Order() {
			known[id] = true
		}
		for _, id := range req.Order {
			if !known[id] {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown section: "+string(id))
			}
		}
		asm.order = append([]SectionID(nil), req.Order...)
	}
	for _, id := range req.Disabled {
		asm.SetEnabled(id, false)
	}

	var snap *chart.Snapshot
	if req.PatientID != nil && h.chart != nil {
		s, err := h.chart.GetSnapshot(c.Request().Context(), *req.PatientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		snap = s
	}

	content := asm.Render(req.Form, snap)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"content":     content,
		"placeholder": reportFor(content),
	})
}

// -- FHIR Composition facade --

func (h *Handler) GetCompositionFHIR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("invalid id"))
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Composition", c.Param("id")))
	}
	return c.JSON(http.StatusOK, n.ToFHIR())
}

func (h *Handler) SearchCompositionsFHIR(c echo.Context) error {
	pg := pagination.FromContext(c)
	var patientID *uuid.UUID
	if p := c.QueryParam("patient"); p != "" {
		pid, err := uuid.Parse(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("invalid patient reference"))
		}
		patientID = &pid
	}
	// preliminary covers every unsigned note; pended is distinguished by the
	// note-status extension, not by Composition.status
	var statuses []string
	switch c.QueryParam("status") {
	case "final":
		statuses = []string{StatusSigned}
	case "preliminary":
		statuses = []string{StatusDraft, StatusPended}
	}
	items, total, err := h.svc.List(c.Request().Context(), patientID, statuses, pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fhir.ErrorOutcome(err.Error()))
	}
	resources := make([]interface{}, 0, len(items))
	for _, n := range items {
		resources = append(resources, n.ToFHIR())
	}
	bundle := fhir.NewSearchBundle(resources, total, c.Request().URL.String())
	base := c.Request().URL.Path
	if pg.HasNext(total) {
		bundle.Link = append(bundle.Link, fhir.BundleLink{
			Relation: "next",
			URL:      fmt.Sprintf("%s?_offset=%d&_count=%d", base, pg.NextOffset(), pg.Limit),
		})
	}
	if pg.HasPrevious() {
		bundle.Link = append(bundle.Link, fhir.BundleLink{
			Relation: "previous",
			URL:      fmt.Sprintf("%s?_offset=%d&_count=%d", base, pg.PreviousOffset(), pg.Limit),
		})
	}
	return c.JSON(http.StatusOK, bundle)
}
