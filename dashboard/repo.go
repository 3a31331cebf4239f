package dashboard

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a user has no dashboard, which only happens
// for accounts that never completed verification.
var ErrNotFound = goerrors.New("dashboard not found", goerrors.CategoryNotFound).
	WithTextCode("DASHBOARD_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrInvalidUserID is returned when an owner id is not a well formed
// identifier.
var ErrInvalidUserID = goerrors.New("invalid user id", goerrors.CategoryBadInput).
	WithTextCode("INVALID_USER_ID").
	WithCode(goerrors.CodeBadRequest)

// Reader is the narrow lookup surface the HTTP boundary consumes.
type Reader interface {
	GetByOwner(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

// Dashboards is the workspace repository.
type Dashboards interface {
	repository.Repository[*Dashboard]
	Reader

	CreateForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type dashboards struct {
	repository.Repository[*Dashboard]
	db *bun.DB
}

var _ Dashboards = (*dashboards)(nil)

func NewRepository(db *bun.DB) Dashboards {
	repo := repository.NewRepository[*Dashboard](db, repository.ModelHandlers[*Dashboard]{
		NewRecord: func() *Dashboard { return &Dashboard{} },
		GetID: func(d *Dashboard) uuid.UUID {
			if d == nil {
				return uuid.Nil
			}
			return d.ID
		},
		SetID: func(d *Dashboard, id uuid.UUID) {
			if d != nil {
				d.ID = id
			}
		},
	})

	return &dashboards{
		Repository: repo,
		db:         db,
	}
}

func (r *dashboards) GetByOwner(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	record := &Dashboard{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load dashboard")
	}

	return record, nil
}

// ByOwner resolves the owner id string and loads the matching dashboard.
func ByOwner(ctx context.Context, repo Reader, ownerID string) (*Dashboard, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	return repo.GetByOwner(ctx, id)
}

// CreateForUserTx provisions the workspace for a freshly verified account.
// The unique constraint on user_id backstops the exactly-once guarantee,
// so a duplicate insert fails loudly instead of silently doubling up.
func (r *dashboards) CreateForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	record := &Dashboard{
		ID:     uuid.New(),
		UserID: userID,
	}

	if _, err := r.Repository.CreateTx(ctx, tx, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create dashboard")
	}

	return nil
}
