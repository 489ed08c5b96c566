package bookinstances

import (
	"strconv"

	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/models"
)

// allStatuses is the set of loan states a copy can be in, in the order the
// form's selector lists them.
var allStatuses = []string{
	models.StatusAvailable,
	models.StatusMaintenance,
	models.StatusLoaned,
	models.StatusReserved,
}

// BookInstanceForm is the payload for the copy create and update forms.
type BookInstanceForm struct {
	binder.FieldErrors `form:"-" json:"-"`

	Book    string `form:"book" json:"book" mod:"trim,escape" validate:"required"`
	Imprint string `form:"imprint" json:"imprint" mod:"trim,escape" validate:"required"`
	Status  string `form:"status" json:"status" mod:"trim" default:"Maintenance" validate:"required,oneof=Available Maintenance Loaned Reserved"`
	DueBack string `form:"due_back" json:"due_back" mod:"trim" validate:"omitempty,date"`
}

// BookID returns the selected book's identifier, or 0 when the field does not
// hold one.
func (f *BookInstanceForm) BookID() int {
	id, err := strconv.Atoi(f.Book)
	if err != nil {
		return 0
	}
	return id
}

func (f *BookInstanceForm) model() *models.BookInstance {
	return &models.BookInstance{
		BookID:  f.BookID(),
		Imprint: f.Imprint,
		Status:  f.Status,
		DueBack: models.ParseDate(f.DueBack),
	}
}

func formFromModel(instance *models.BookInstance) *BookInstanceForm {
	return &BookInstanceForm{
		Book:    strconv.Itoa(instance.BookID),
		Imprint: instance.Imprint,
		Status:  instance.Status,
		DueBack: models.FormatDate(instance.DueBack),
	}
}
