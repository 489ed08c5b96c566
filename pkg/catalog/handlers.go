package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	catalogService *Service
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.catalogService.GetCounts(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "index", echo.Map{
		"Title":  "Local Library Home",
		"Counts": counts,
	}))
}
