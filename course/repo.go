package course

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Catalog is the narrow read surface the course service consumes.
type Catalog interface {
	List(ctx context.Context) ([]Course, error)
	ListByCategory(ctx context.Context, category string) ([]Course, error)
	ByID(ctx context.Context, id string) (*Course, error)
}

// Courses is the catalog repository. The generic repository surface stays on
// the concrete type; its List and Count signatures collide with the catalog's.
type Courses interface {
	Catalog

	Create(ctx context.Context, record *Course, criteria ...repository.InsertCriteria) (*Course, error)
	Count(ctx context.Context) (int, error)
}

type courses struct {
	repository.Repository[*Course]
	db *bun.DB
}

var _ Courses = (*courses)(nil)

func NewRepository(db *bun.DB) Courses {
	repo := repository.NewRepository[*Course](db, repository.ModelHandlers[*Course]{
		NewRecord: func() *Course { return &Course{} },
		GetID: func(c *Course) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Course, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &courses{
		Repository: repo,
		db:         db,
	}
}

func (r *courses) List(ctx context.Context) ([]Course, error) {
	var records []Course
	err := r.db.NewSelect().
		Model(&records).
		Order("title ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list courses")
	}

	return records, nil
}

func (r *courses) ListByCategory(ctx context.Context, category string) ([]Course, error) {
	var records []Course
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.category = ?", category).
		Order("title ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list courses by category")
	}

	return records, nil
}

func (r *courses) ByID(ctx context.Context, id string) (*Course, error) {
	record := &Course{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load course")
	}

	return record, nil
}

func (r *courses) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Course)(nil)).
		Count(ctx)

	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count courses")
	}

	return count, nil
}
