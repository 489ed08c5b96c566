package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/authors"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/genres"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type handler struct {
	bookService   *Service
	authorService *authors.Service
	genreService  *genres.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "book-list", echo.Map{
		"Title": "Book List",
		"Books": books,
	}))
}

// retrieveWithInstances fetches the book (author and genres resolved) and its
// copies concurrently.
func (h *handler) retrieveWithInstances(c echo.Context, id int) (*models.Book, []*models.BookInstance, error) {
	ctx := c.Request().Context()

	var book *models.Book
	var instances []*models.BookInstance

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		book, err = h.bookService.RetrieveBook(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		instances, err = h.bookService.GetInstances(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return book, instances, nil
}

// selectorLists fetches the author and genre lists that populate the book
// form's selectors.
func (h *handler) selectorLists(c echo.Context) ([]*models.Author, []*models.Genre, error) {
	ctx := c.Request().Context()

	var authorList []*models.Author
	var genreList []*models.Genre

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authorList, err = h.authorService.ListAuthors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		genreList, err = h.genreService.ListGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return authorList, genreList, nil
}

func (h *handler) renderForm(c echo.Context, title string, form *BookForm) error {
	authorList, genreList, err := h.selectorLists(c)
	if err != nil {
		return err
	}

	return h.renderFormWith(c, title, form, authorList, genreList)
}

func (h *handler) renderFormWith(c echo.Context, title string, form *BookForm, authorList []*models.Author, genreList []*models.Genre) error {
	return errors.WithStack(c.Render(http.StatusOK, "book-form", echo.Map{
		"Title":          title,
		"Form":           form,
		"Errors":         form.Errors(),
		"Authors":        authorList,
		"Genres":         genreList,
		"SelectedAuthor": form.AuthorID(),
		"CheckedGenres":  checkedGenres(form.GenreIDs()),
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, instances, err := h.retrieveWithInstances(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "book-detail", echo.Map{
		"Title":         book.Title,
		"Book":          book,
		"BookInstances": instances,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, "Create Book", &BookForm{})
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	form := BookForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return h.renderForm(c, "Create Book", &form)
	}

	book := form.model()
	if err := h.bookService.CreateBook(ctx, book, form.GenreIDs()); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, book.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// The book and both selector lists load concurrently.
	var book *models.Book
	var authorList []*models.Author
	var genreList []*models.Genre

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		book, err = h.bookService.RetrieveBook(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		authorList, err = h.authorService.ListAuthors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		genreList, err = h.genreService.ListGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	return h.renderFormWith(c, "Update Book", formFromModel(book), authorList, genreList)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	form := BookForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return h.renderForm(c, "Update Book", &form)
	}

	book := form.model()
	book.ID = id
	if err := h.bookService.UpdateBook(ctx, book, form.GenreIDs()); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, book.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, instances, err := h.retrieveWithInstances(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "book-delete", echo.Map{
		"Title":         "Delete Book",
		"Book":          book,
		"BookInstances": instances,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, instances, err := h.retrieveWithInstances(c, id)
	if err != nil {
		return err
	}

	// Copies still reference this book; show them instead of deleting.
	if len(instances) > 0 {
		return errors.WithStack(c.Render(http.StatusOK, "book-delete", echo.Map{
			"Title":         "Delete Book",
			"Book":          book,
			"BookInstances": instances,
		}))
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/books"))
}
