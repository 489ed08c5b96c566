package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type handler struct {
	authorService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	authors, err := h.authorService.ListAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "author-list", echo.Map{
		"Title":   "Author List",
		"Authors": authors,
	}))
}

// retrieveWithBooks fetches the author and its books concurrently. Either
// query failing aborts the whole fetch.
func (h *handler) retrieveWithBooks(c echo.Context, id int) (*models.Author, []*models.Book, error) {
	ctx := c.Request().Context()

	var author *models.Author
	var books []*models.Book

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		author, err = h.authorService.RetrieveAuthor(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.authorService.GetBooks(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return author, books, nil
}

func (h *handler) retrieve(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "author-detail", echo.Map{
		"Title":       "Author: " + author.Name(),
		"Author":      author,
		"AuthorBooks": books,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "author-form", echo.Map{
		"Title": "Create Author",
		"Form":  &AuthorForm{},
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	form := AuthorForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return errors.WithStack(c.Render(http.StatusOK, "author-form", echo.Map{
			"Title":  "Create Author",
			"Form":   &form,
			"Errors": form.Errors(),
		}))
	}

	author := form.model()
	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, author.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "author-form", echo.Map{
		"Title": "Update Author",
		"Form":  formFromModel(author),
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	form := AuthorForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return errors.WithStack(c.Render(http.StatusOK, "author-form", echo.Map{
			"Title":  "Update Author",
			"Form":   &form,
			"Errors": form.Errors(),
		}))
	}

	author := form.model()
	author.ID = id
	if err := h.authorService.UpdateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, author.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "author-delete", echo.Map{
		"Title":       "Delete Author",
		"Author":      author,
		"AuthorBooks": books,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	// Books still reference this author; show them instead of deleting.
	if len(books) > 0 {
		return errors.WithStack(c.Render(http.StatusOK, "author-delete", echo.Map{
			"Title":       "Delete Author",
			"Author":      author,
			"AuthorBooks": books,
		}))
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/authors"))
}
