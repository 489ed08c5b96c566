package bookinstances

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/books"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the book copy routes on the catalog group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		instanceService: NewService(db),
		bookService:     books.NewService(db),
	}

	g.GET("/bookinstances", h.list)
	g.GET("/bookinstances/:id", h.retrieve)
	g.GET("/bookinstance/create", h.createForm)
	g.POST("/bookinstance/create", h.create)
	g.GET("/bookinstance/:id/update", h.updateForm)
	g.POST("/bookinstance/:id/update", h.update)
	g.GET("/bookinstance/:id/delete", h.deleteForm)
	g.POST("/bookinstance/:id/delete", h.delete)
}
