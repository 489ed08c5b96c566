package genres

import (
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/models"
)

// GenreForm is the payload for the genre create and update forms.
type GenreForm struct {
	binder.FieldErrors `form:"-" json:"-"`

	Name string `form:"name" json:"name" mod:"trim,escape" validate:"required"`
}

func (f *GenreForm) model() *models.Genre {
	return &models.Genre{Name: f.Name}
}
