package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	AuthorID  int       `bun:",nullzero" json:"author_id"`
	Author    *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Summary   string    `bun:",nullzero" json:"summary"`
	ISBN      string    `bun:"isbn,nullzero" json:"isbn"`
	// Genres is loaded with an explicit join through book_genres; it isn't a
	// bun relation.
	Genres []*Genre `bun:"-" json:"genres,omitempty"`
}

func (b *Book) URL() string {
	return "/catalog/books/" + strconv.Itoa(b.ID)
}

// HasGenre reports whether the book is associated with the given genre.
func (b *Book) HasGenre(genreID int) bool {
	for _, g := range b.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}
