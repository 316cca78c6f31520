package queries

import (
	"context"

	"tour-booking/internal/infra"
	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errs.NewKind("user not found", errs.ErrNotFound)
	ErrUserUnknown  = errs.NewKind("no account is linked to this identity", errs.ErrUnauthenticated)
)

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
}

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
	// ResolveFirebaseUser maps a verified Firebase uid onto a local account.
	ResolveFirebaseUser(ctx context.Context, uid string) (*AuthorizedUserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*AuthorizedUserView, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	user, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (q *userQueriesImpl) ResolveFirebaseUser(ctx context.Context, uid string) (*AuthorizedUserView, error) {
	user, err := q.readStore.FindByFirebaseUID(ctx, uid)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserUnknown
		}
		return nil, err
	}
	return user, nil
}
