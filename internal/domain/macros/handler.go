package macros

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chartnote/chartnote/internal/platform/auth"
)

type Handler struct {
	table *Table
}

func NewHandler(table *Table) *Handler {
	return &Handler{table: table}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/macros", h.ListMacros)
	g.GET("/macros/:trigger", h.GetMacro)
}

func (h *Handler) ListMacros(c echo.Context) error {
	if prefix := c.QueryParam("prefix"); prefix != "" {
		return c.JSON(http.StatusOK, h.table.MatchPrefix(prefix, 10))
	}
	return c.JSON(http.StatusOK, h.table.All())
}

func (h *Handler) GetMacro(c echo.Context) error {
	m, ok := h.table.Lookup(c.Param("trigger"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "macro not found")
	}
	return c.JSON(http.StatusOK, m)
}
