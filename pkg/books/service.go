package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book and its genre associations in one transaction.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.insertGenres(ctx, tx, book.ID, genreIDs)
	})
}

func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	book.Genres, err = svc.GetGenres(ctx, id)
	if err != nil {
		return nil, err
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	var books []*models.Book

	err := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Order("b.title ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// UpdateBook replaces the book's mutable fields and its full genre set,
// keeping its identifier.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	book.UpdatedAt = time.Now()

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(book).
			Column("title", "author_id", "summary", "isbn", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}

		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.insertGenres(ctx, tx, book.ID, genreIDs)
	})
}

func (svc *Service) insertGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}

	rows := make([]*models.BookGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		rows = append(rows, &models.BookGenre{BookID: bookID, GenreID: genreID})
	}

	_, err := tx.NewInsert().
		Model(&rows).
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteBook removes the book unless copies still reference it.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	count, err := svc.GetInstanceCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errcodes.DependentsExist("Book", "BookInstance")
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// GetGenres returns the book's genres sorted by name.
func (svc *Service) GetGenres(ctx context.Context, bookID int) ([]*models.Genre, error) {
	var genres []*models.Genre

	err := svc.db.
		NewSelect().
		Model(&genres).
		Join("INNER JOIN book_genres bg ON bg.genre_id = g.id").
		Where("bg.book_id = ?", bookID).
		Order("g.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

// GetInstanceCount returns the count of copies of this book.
func (svc *Service) GetInstanceCount(ctx context.Context, bookID int) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.BookInstance)(nil)).
		Where("bi.book_id = ?", bookID).
		Count(ctx)
	return count, errors.WithStack(err)
}

// GetInstances returns all copies of this book.
func (svc *Service) GetInstances(ctx context.Context, bookID int) ([]*models.BookInstance, error) {
	var instances []*models.BookInstance

	err := svc.db.
		NewSelect().
		Model(&instances).
		Where("bi.book_id = ?", bookID).
		Order("bi.imprint ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instances, nil
}
