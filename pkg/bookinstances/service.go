package bookinstances

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

func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance) error {
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveInstance(ctx context.Context, id int) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	err := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Where("bi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("BookInstance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

func (svc *Service) ListInstances(ctx context.Context) ([]*models.BookInstance, error) {
	var instances []*models.BookInstance

	err := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Order("bi.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instances, nil
}

// UpdateInstance replaces the copy's mutable fields, due date included, so a
// cleared date stays cleared.
func (svc *Service) UpdateInstance(ctx context.Context, instance *models.BookInstance) error {
	instance.UpdatedAt = time.Now()

	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column("book_id", "imprint", "status", "due_back", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("BookInstance")
	}
	return nil
}

// DeleteInstance removes the copy. Nothing references copies, so there is no
// dependents guard here.
func (svc *Service) DeleteInstance(ctx context.Context, id int) error {
	_, err := svc.db.
		NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
