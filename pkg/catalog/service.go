package catalog

import (
	"context"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Counts holds the record totals shown on the catalog home page.
type Counts struct {
	Books                  int
	BookInstances          int
	BookInstancesAvailable int
	Authors                int
	Genres                 int
}

// GetCounts runs the five dashboard counts concurrently and returns them
// together. Any single failure fails the whole page.
func (svc *Service) GetCounts(ctx context.Context) (*Counts, error) {
	counts := &Counts{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := svc.db.NewSelect().Model((*models.Book)(nil)).Count(gctx)
		counts.Books = n
		return errors.WithStack(err)
	})
	g.Go(func() error {
		n, err := svc.db.NewSelect().Model((*models.BookInstance)(nil)).Count(gctx)
		counts.BookInstances = n
		return errors.WithStack(err)
	})
	g.Go(func() error {
		n, err := svc.db.NewSelect().
			Model((*models.BookInstance)(nil)).
			Where("bi.status = ?", models.StatusAvailable).
			Count(gctx)
		counts.BookInstancesAvailable = n
		return errors.WithStack(err)
	})
	g.Go(func() error {
		n, err := svc.db.NewSelect().Model((*models.Author)(nil)).Count(gctx)
		counts.Authors = n
		return errors.WithStack(err)
	})
	g.Go(func() error {
		n, err := svc.db.NewSelect().Model((*models.Genre)(nil)).Count(gctx)
		counts.Genres = n
		return errors.WithStack(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return counts, nil
}
