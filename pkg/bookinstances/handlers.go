package bookinstances

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/books"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type handler struct {
	instanceService *Service
	bookService     *books.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	instances, err := h.instanceService.ListInstances(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance-list", echo.Map{
		"Title":         "Book Instance List",
		"BookInstances": instances,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("BookInstance")
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance-detail", echo.Map{
		"Title":    "Copy: " + instance.Imprint,
		"Instance": instance,
	}))
}

func (h *handler) renderForm(c echo.Context, title string, form *BookInstanceForm) error {
	ctx := c.Request().Context()

	bookList, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance-form", echo.Map{
		"Title":        title,
		"Form":         form,
		"Errors":       form.Errors(),
		"Books":        bookList,
		"SelectedBook": form.BookID(),
		"Statuses":     allStatuses,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, "Create BookInstance", &BookInstanceForm{Status: models.StatusMaintenance})
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	form := BookInstanceForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return h.renderForm(c, "Create BookInstance", &form)
	}

	instance := form.model()
	if err := h.instanceService.CreateInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, instance.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("BookInstance")
	}

	// The copy and the book selector list load concurrently.
	var instance *models.BookInstance
	var bookList []*models.Book

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		instance, err = h.instanceService.RetrieveInstance(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bookList, err = h.bookService.ListBooks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	form := formFromModel(instance)
	return errors.WithStack(c.Render(http.StatusOK, "bookinstance-form", echo.Map{
		"Title":        "Update BookInstance",
		"Form":         form,
		"Errors":       form.Errors(),
		"Books":        bookList,
		"SelectedBook": form.BookID(),
		"Statuses":     allStatuses,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("BookInstance")
	}

	form := BookInstanceForm{}
	if err := c.Bind(&form); err != nil {
		return errors.WithStack(err)
	}
	if !form.Valid() {
		return h.renderForm(c, "Update BookInstance", &form)
	}

	instance := form.model()
	instance.ID = id
	if err := h.instanceService.UpdateInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, instance.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("BookInstance")
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance-delete", echo.Map{
		"Title":    "Delete BookInstance",
		"Instance": instance,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("BookInstance")
	}

	if err := h.instanceService.DeleteInstance(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/bookinstances"))
}
