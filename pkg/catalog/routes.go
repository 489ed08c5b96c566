package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the catalog home page on the catalog group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{catalogService: NewService(db)}

	g.GET("", h.index)
}
