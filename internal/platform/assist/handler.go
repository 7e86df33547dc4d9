package assist

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type assistRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// Handler exposes the assist client over POST. The response always carries
// text; Fallback marks whether the remote call failed.
func Handler(client *Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req assistRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if req.Text == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "text is required")
		}

		out, fellBack := client.SuggestOrFallback(c.Request().Context(), req.Text, req.Action)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"text":     out,
			"fallback": fellBack,
		})
	}
}
