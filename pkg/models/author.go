package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `bun:",nullzero" json:"first_name"`
	FamilyName  string     `bun:",nullzero" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

// Name returns the display name in "family_name, first_name" order.
func (a *Author) Name() string {
	if a.FirstName == "" && a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan returns a human-readable "birth - death" range. Unknown dates are
// left blank.
func (a *Author) Lifespan() string {
	birth := ""
	death := ""
	if a.DateOfBirth != nil {
		birth = a.DateOfBirth.Format(DateFormat)
	}
	if a.DateOfDeath != nil {
		death = a.DateOfDeath.Format(DateFormat)
	}
	if birth == "" && death == "" {
		return ""
	}
	return birth + " - " + death
}

func (a *Author) URL() string {
	return "/catalog/authors/" + strconv.Itoa(a.ID)
}
