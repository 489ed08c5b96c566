package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusAvailable   = "Available"
	StatusMaintenance = "Maintenance"
	StatusLoaned      = "Loaned"
	StatusReserved    = "Reserved"
)

// BookInstance is a physical, loanable copy of a Book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID        int        `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	BookID    int        `bun:",nullzero" json:"book_id"`
	Book      *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint   string     `bun:",nullzero" json:"imprint"`
	Status    string     `bun:",nullzero" json:"status"`
	DueBack   *time.Time `json:"due_back"`
}

func (bi *BookInstance) URL() string {
	return "/catalog/bookinstances/" + strconv.Itoa(bi.ID)
}

// DueBackDisplay returns the due date formatted for views, or the empty
// string when there is none.
func (bi *BookInstance) DueBackDisplay() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format(DateFormat)
}
