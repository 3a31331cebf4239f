package course

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Service answers catalog queries and owns the id validation that sits
// between handler input and the repository.
type Service struct {
	repo Catalog
}

func NewService(repo Catalog) *Service {
	return &Service{repo: repo}
}

// All returns every course in the catalog. An empty catalog is an empty
// slice, not an error.
func (s *Service) All(ctx context.Context) ([]Course, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Course{}
	}
	return records, nil
}

// ByID returns a single course. A malformed id is reported as bad input
// before any lookup happens.
func (s *Service) ByID(ctx context.Context, id string) (*Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	record, err := s.repo.ByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load course")
	}

	return record, nil
}

// ByCategory filters the catalog by category. A category with no courses
// is reported as not found.
func (s *Service) ByCategory(ctx context.Context, category string) ([]Course, error) {
	records, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
