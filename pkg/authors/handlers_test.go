package authors

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/migrations"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/render"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func setupServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()

	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

	r, err := render.New()
	require.NoError(t, err)
	e.Renderer = r

	e.HTTPErrorHandler = errcodes.NewHandler(false).Handle

	RegisterRoutes(e.Group("/catalog"), db)

	return e
}

func getPage(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func postForm(e *echo.Echo, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func createTestAuthor(t *testing.T, db *bun.DB, firstName, familyName string) *models.Author {
	t.Helper()

	now := time.Now()
	author := &models.Author{
		CreatedAt:  now,
		UpdatedAt:  now,
		FirstName:  firstName,
		FamilyName: familyName,
	}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)
	return author
}

func createTestBook(t *testing.T, db *bun.DB, authorID int, title string) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		AuthorID:  authorID,
		Summary:   "A summary.",
		ISBN:      "9780000000000",
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func TestAuthorList(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	e := setupServer(t, db)

	createTestAuthor(t, db, "Patrick", "Rothfuss")
	createTestAuthor(t, db, "Ben", "Bova")

	rr := getPage(e, "/catalog/authors")
	require.Equal(t, http.StatusOK, rr.Code)
	// Sorted by family name.
	body := rr.Body.String()
	assert.Contains(t, body, "Bova, Ben")
	assert.Contains(t, body, "Rothfuss, Patrick")
	assert.Less(t, strings.Index(body, "Bova"), strings.Index(body, "Rothfuss"))
}

func TestAuthorDetail(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	e := setupServer(t, db)

	author := createTestAuthor(t, db, "Patrick", "Rothfuss")
	createTestBook(t, db, author.ID, "The Name of the Wind")

	rr := getPage(e, author.URL())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Rothfuss, Patrick")
	assert.Contains(t, rr.Body.String(), "The Name of the Wind")

	t.Run("unknown id returns 404", func(tt *testing.T) {
		rr := getPage(e, "/catalog/authors/9999")
		assert.Equal(tt, http.StatusNotFound, rr.Code)
	})
}

func TestAuthorCreate(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	e := setupServer(t, db)

	t.Run("valid input redirects to the new detail page", func(tt *testing.T) {
		rr := postForm(e, "/catalog/author/create", url.Values{
			"first_name":    {" Jane "},
			"family_name":   {"Austen"},
			"date_of_birth": {"1775-12-16"},
			"date_of_death": {"1817-07-18"},
		})
		require.Equal(tt, http.StatusSeeOther, rr.Code)

		location := rr.Header().Get(echo.HeaderLocation)
		require.True(tt, strings.HasPrefix(location, "/catalog/authors/"))

		id, err := strconv.Atoi(strings.TrimPrefix(location, "/catalog/authors/"))
		require.NoError(tt, err)

		author, err := NewService(db).RetrieveAuthor(context.Background(), id)
		require.NoError(tt, err)
		assert.Equal(tt, "Jane", author.FirstName)
		assert.Equal(tt, "Austen", author.FamilyName)
		require.NotNil(tt, author.DateOfBirth)
		assert.Equal(tt, "1775-12-16", models.FormatDate(author.DateOfBirth))
	})

	t.Run("invalid input re-renders the form with the sanitized values", func(tt *testing.T) {
		rr := postForm(e, "/catalog/author/create", url.Values{
			"first_name":  {" Jo-hn "},
			"family_name": {"Doe"},
		})
		require.Equal(tt, http.StatusOK, rr.Code)
		assert.Contains(tt, rr.Body.String(), "must contain only letters and numbers")
		assert.Contains(tt, rr.Body.String(), `value="Jo-hn"`)

		count, err := db.NewSelect().
			Model((*models.Author)(nil)).
			Where("family_name = ?", "Doe").
			Count(context.Background())
		require.NoError(tt, err)
		assert.Zero(tt, count)
	})

	t.Run("an impossible birth date is rejected", func(tt *testing.T) {
		rr := postForm(e, "/catalog/author/create", url.Values{
			"first_name":    {"Februa"},
			"family_name":   {"Thirtyfirst"},
			"date_of_birth": {"1990-02-31"},
		})
		require.Equal(tt, http.StatusOK, rr.Code)
		assert.Contains(tt, rr.Body.String(), "YYYY-MM-DD")

		count, err := db.NewSelect().
			Model((*models.Author)(nil)).
			Where("family_name = ?", "Thirtyfirst").
			Count(context.Background())
		require.NoError(tt, err)
		assert.Zero(tt, count)
	})

	t.Run("death before birth is rejected", func(tt *testing.T) {
		rr := postForm(e, "/catalog/author/create", url.Values{
			"first_name":    {"Benjamin"},
			"family_name":   {"Button"},
			"date_of_birth": {"1918-11-11"},
			"date_of_death": {"1860-01-01"},
		})
		require.Equal(tt, http.StatusOK, rr.Code)
		assert.Contains(tt, rr.Body.String(), "must not be before")
	})
}

func TestAuthorUpdate(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	e := setupServer(t, db)

	author := createTestAuthor(t, db, "Patrik", "Rothfuss")

	rr := postForm(e, "/catalog/author/"+strconv.Itoa(author.ID)+"/update", url.Values{
		"first_name":  {"Patrick"},
		"family_name": {"Rothfuss"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, author.URL(), rr.Header().Get(echo.HeaderLocation))

	updated, err := NewService(db).RetrieveAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patrick", updated.FirstName)
}

func TestAuthorDelete(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	e := setupServer(t, db)

	t.Run("author with books is kept and the books are listed", func(tt *testing.T) {
		author := createTestAuthor(t, db, "Patrick", "Rothfuss")
		createTestBook(tt, db, author.ID, "The Name of the Wind")

		rr := postForm(e, "/catalog/author/"+strconv.Itoa(author.ID)+"/delete", url.Values{})
		require.Equal(tt, http.StatusOK, rr.Code)
		assert.Contains(tt, rr.Body.String(), "The Name of the Wind")

		_, err := NewService(db).RetrieveAuthor(context.Background(), author.ID)
		assert.NoError(tt, err)
	})

	t.Run("author without books is deleted", func(tt *testing.T) {
		author := createTestAuthor(tt, db, "Ben", "Bova")

		rr := postForm(e, "/catalog/author/"+strconv.Itoa(author.ID)+"/delete", url.Values{})
		require.Equal(tt, http.StatusSeeOther, rr.Code)
		assert.Equal(tt, "/catalog/authors", rr.Header().Get(echo.HeaderLocation))

		_, err := NewService(db).RetrieveAuthor(context.Background(), author.ID)
		assert.True(tt, errors.Is(err, errcodes.NotFound("Author")))
	})
}
