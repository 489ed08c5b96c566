package authors

import (
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/models"
)

// AuthorForm is the payload for the author create and update forms. Values
// are trimmed and escaped before validation, so whatever is echoed back into
// a re-rendered form is the sanitized input.
type AuthorForm struct {
	binder.FieldErrors `form:"-" json:"-"`

	FirstName   string `form:"first_name" json:"first_name" mod:"trim,escape" validate:"required,alphanum"`
	FamilyName  string `form:"family_name" json:"family_name" mod:"trim,escape" validate:"required,alphanum"`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth" mod:"trim" validate:"omitempty,date"`
	DateOfDeath string `form:"date_of_death" json:"date_of_death" mod:"trim" validate:"omitempty,date,dateafter=DateOfBirth"`
}

func (f *AuthorForm) model() *models.Author {
	return &models.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: models.ParseDate(f.DateOfBirth),
		DateOfDeath: models.ParseDate(f.DateOfDeath),
	}
}

func formFromModel(author *models.Author) *AuthorForm {
	return &AuthorForm{
		FirstName:   author.FirstName,
		FamilyName:  author.FamilyName,
		DateOfBirth: models.FormatDate(author.DateOfBirth),
		DateOfDeath: models.FormatDate(author.DateOfDeath),
	}
}
