package readstore

import (
	"context"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	GetUserByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Users, error)
	GetUserByFirebaseUID(ctx context.Context, db pgquery.DBTX, uid string) (pgquery.Users, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      pgquery.DBTX
}

func NewUserReadStore(queries UserReadQueries, db pgquery.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row, err := r.queries.GetUserByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return toUserView(row)
}

func (r *UserReadStore) FindByFirebaseUID(ctx context.Context, uid string) (*queries.AuthorizedUserView, error) {
	row, err := r.queries.GetUserByFirebaseUID(ctx, r.db, uid)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user by firebase uid", err)
	}
	return toUserView(row)
}

func toUserView(row pgquery.Users) (*queries.AuthorizedUserView, error) {
	u, err := converter.UserFromInfra(row)
	if err != nil {
		return nil, err
	}
	return converter.AuthorizedUserViewFromDomain(u), nil
}
