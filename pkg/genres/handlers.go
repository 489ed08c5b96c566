package genres

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
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.genreService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre-list", echo.Map{
		"Title":  "Genre List",
		"Genres": genres,
	}))
}

func (h *handler) retrieveWithBooks(c echo.Context, id int) (*models.Genre, []*models.Book, error) {
	ctx := c.Request().Context()

	var genre *models.Genre
	var books []*models.Book

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genre, err = h.genreService.RetrieveGenre(gctx, RetrieveGenreOptions{ID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.genreService.GetBooks(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return genre, books, nil
}

func (h *handler) retrieve(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Genre")
	}

	genre, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre-detail", echo.Map{
		"Title":      "Genre: " + genre.Name,
		"Genre":      genre,
		"GenreBooks": books,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "genre-form", echo.Map{
		"Title": "Create Genre",
		"Form":  &GenreForm{},
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	form := GenreForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return errors.WithStack(c.Render(http.StatusOK, "genre-form", echo.Map{
			"Title":  "Create Genre",
			"Form":   &form,
			"Errors": form.Errors(),
		}))
	}

	// A genre with the same name (case-insensitive) may already exist; if so,
	// redirect to it rather than creating a duplicate.
	existing, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &form.Name})
	if err == nil {
		return errors.WithStack(c.Redirect(http.StatusSeeOther, existing.URL()))
	}
	if !errors.Is(err, errcodes.NotFound("Genre")) {
		return errors.WithStack(err)
	}

	genre := form.model()
	if err := h.genreService.CreateGenre(ctx, genre); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, genre.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Genre")
	}

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre-form", echo.Map{
		"Title": "Update Genre",
		"Form":  &GenreForm{Name: genre.Name},
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Genre")
	}

	form := GenreForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return errors.WithStack(c.Render(http.StatusOK, "genre-form", echo.Map{
			"Title":  "Update Genre",
			"Form":   &form,
			"Errors": form.Errors(),
		}))
	}

	genre := form.model()
	genre.ID = id
	if err := h.genreService.UpdateGenre(ctx, genre); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, genre.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Genre")
	}

	genre, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre-delete", echo.Map{
		"Title":      "Delete Genre",
		"Genre":      genre,
		"GenreBooks": books,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Genre")
	}

	genre, books, err := h.retrieveWithBooks(c, id)
	if err != nil {
		return err
	}

	// Books still carry this genre; show them instead of deleting.
	if len(books) > 0 {
		return errors.WithStack(c.Render(http.StatusOK, "genre-delete", echo.Map{
			"Title":      "Delete Genre",
			"Genre":      genre,
			"GenreBooks": books,
		}))
	}

	if err := h.genreService.DeleteGenre(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/genres"))
}
