package books

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/authors"
	"github.com/openshelf/openshelf/pkg/genres"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the book routes on the catalog group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		bookService:   NewService(db),
		authorService: authors.NewService(db),
		genreService:  genres.NewService(db),
	}

	g.GET("/books", h.list)
	g.GET("/books/:id", h.retrieve)
	g.GET("/book/create", h.createForm)
	g.POST("/book/create", h.create)
	g.GET("/book/:id/update", h.updateForm)
	g.POST("/book/:id/update", h.update)
	g.GET("/book/:id/delete", h.deleteForm)
	g.POST("/book/:id/delete", h.delete)
}
