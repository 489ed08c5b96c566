package books

import (
	"strconv"

	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/models"
)

// BookForm is the payload for the book create and update forms. The genre
// field may arrive absent, as a single value, or as many values under the
// same name; gorilla/schema decodes all three shapes into the slice.
type BookForm struct {
	binder.FieldErrors `form:"-" json:"-"`

	Title   string   `form:"title" json:"title" mod:"trim,escape" validate:"required"`
	Author  string   `form:"author" json:"author" mod:"trim,escape" validate:"required"`
	Summary string   `form:"summary" json:"summary" mod:"trim,escape" validate:"required"`
	ISBN    string   `form:"isbn" json:"isbn" mod:"trim,escape" validate:"required"`
	Genre   []string `form:"genre" json:"genre" mod:"dive,trim,escape"`
}

// AuthorID returns the selected author reference, or 0 when the value isn't
// a usable identifier. Existence of the author is not checked at validation
// time.
func (f *BookForm) AuthorID() int {
	id, err := strconv.Atoi(f.Author)
	if err != nil {
		return 0
	}
	return id
}

// GenreIDs normalizes the zero-or-more genre selections into a set of
// identifiers.
func (f *BookForm) GenreIDs() []int {
	ids := make([]int, 0, len(f.Genre))
	for _, value := range f.Genre {
		id, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (f *BookForm) model() *models.Book {
	return &models.Book{
		Title:    f.Title,
		AuthorID: f.AuthorID(),
		Summary:  f.Summary,
		ISBN:     f.ISBN,
	}
}

func formFromModel(book *models.Book) *BookForm {
	form := &BookForm{
		Title:   book.Title,
		Author:  strconv.Itoa(book.AuthorID),
		Summary: book.Summary,
		ISBN:    book.ISBN,
	}
	for _, genre := range book.Genres {
		form.Genre = append(form.Genre, strconv.Itoa(genre.ID))
	}
	return form
}

// checkedGenres maps the selected genre IDs for marking form checkboxes.
func checkedGenres(genreIDs []int) map[int]bool {
	checked := make(map[int]bool, len(genreIDs))
	for _, id := range genreIDs {
		checked[id] = true
	}
	return checked
}
