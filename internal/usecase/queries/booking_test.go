//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/user"
	"tour-booking/internal/infra"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/builder"
	queriesmock "tour-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*queriesmock.MockBookingReadStore, queries.BookingQueries) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockBookingReadStore(ctrl)
	return store, queries.NewBookingQueries(store, queries.PageLimits{Default: 10, Max: 100})
}

func TestGetByID(t *testing.T) {
	owner := uuid.New()
	view := builder.NewBookingBuilder().WithUserID(owner).BuildView()

	cases := []struct {
		name    string
		actor   shared.Actor
		wantErr error
	}{
		{name: "owner", actor: shared.Actor{UserID: owner, Role: user.RoleCustomer}},
		{name: "staff", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleStaff}},
		{name: "admin", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin}},
		{name: "other customer", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}, wantErr: queries.ErrBookingAccess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, q := setup(t)
			store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

			got, err := q.GetByID(context.Background(), tc.actor, view.ID)

			if tc.wantErr != nil {
				assert.True(t, errs.Is(err, tc.wantErr))
				assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}

	t.Run("missing booking", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := q.GetByID(context.Background(), shared.Actor{UserID: owner, Role: user.RoleCustomer}, uuid.New())

		assert.True(t, errs.Is(err, queries.ErrBookingNotFound))
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("store failure stays internal", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("failed to get booking", errors.New("connection reset")))

		_, err := q.GetByID(context.Background(), shared.Actor{UserID: owner, Role: user.RoleAdmin}, uuid.New())

		require.Error(t, err)
		assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	})
}

func TestGetByCode(t *testing.T) {
	owner := uuid.New()
	view := builder.NewBookingBuilder().WithUserID(owner).BuildView()

	t.Run("owner", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindByCode(gomock.Any(), view.BookingCode).Return(view, nil)

		got, err := q.GetByCode(context.Background(), shared.Actor{UserID: owner, Role: user.RoleCustomer}, view.BookingCode)

		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("other customer", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindByCode(gomock.Any(), view.BookingCode).Return(view, nil)

		_, err := q.GetByCode(context.Background(), shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}, view.BookingCode)

		assert.True(t, errs.Is(err, queries.ErrBookingAccess))
	})

	t.Run("unknown code", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindByCode(gomock.Any(), "BK000").
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := q.GetByCode(context.Background(), shared.Actor{UserID: owner, Role: user.RoleAdmin}, "BK000")

		assert.True(t, errs.Is(err, queries.ErrBookingNotFound))
	})
}

func TestListMine(t *testing.T) {
	actor := shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}
	other := uuid.New()

	t.Run("always scoped to the caller", func(t *testing.T) {
		store, q := setup(t)
		store.EXPECT().FindAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.BookingFilter, p queries.PageRequest) ([]*queries.BookingView, int, error) {
				require.NotNil(t, f.UserID)
				assert.Equal(t, actor.UserID, *f.UserID)
				assert.Equal(t, queries.PageRequest{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: queries.SortDesc}, p)
				return nil, 0, nil
			})

		page, err := q.ListMine(context.Background(), actor, queries.BookingFilter{UserID: &other}, queries.PageRequest{})

		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, queries.Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, page.Pagination)
	})

	t.Run("pagination math", func(t *testing.T) {
		store, q := setup(t)
		items := []*queries.BookingView{builder.NewBookingBuilder().BuildView()}
		store.EXPECT().FindAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ queries.BookingFilter, p queries.PageRequest) ([]*queries.BookingView, int, error) {
				assert.Equal(t, 3, p.Page)
				assert.Equal(t, 100, p.Limit)
				assert.Equal(t, 200, p.Offset())
				return items, 201, nil
			})

		page, err := q.ListMine(context.Background(), actor, queries.BookingFilter{}, queries.PageRequest{Page: 3, Limit: 500})

		require.NoError(t, err)
		assert.Equal(t, queries.Pagination{Page: 3, Limit: 100, Total: 201, TotalPages: 3}, page.Pagination)
		assert.Len(t, page.Items, 1)
	})

	t.Run("page beyond the offset range", func(t *testing.T) {
		_, q := setup(t)

		_, err := q.ListMine(context.Background(), actor, queries.BookingFilter{}, queries.PageRequest{Page: 30_000_000, Limit: 100})

		assert.True(t, errs.Is(err, queries.ErrPageOutOfRange))
		assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	})

	t.Run("rejects bad sort and status", func(t *testing.T) {
		_, q := setup(t)
		bad := booking.Status("archived")

		_, err := q.ListMine(context.Background(), actor, queries.BookingFilter{}, queries.PageRequest{SortBy: "price"})
		assert.True(t, errs.Is(err, queries.ErrInvalidSort))

		_, err = q.ListMine(context.Background(), actor, queries.BookingFilter{}, queries.PageRequest{SortOrder: "up"})
		assert.True(t, errs.Is(err, queries.ErrInvalidSort))

		_, err = q.ListMine(context.Background(), actor, queries.BookingFilter{Status: &bad}, queries.PageRequest{})
		assert.True(t, errs.Is(err, booking.ErrInvalidStatus))
	})
}

func TestAdminQueries(t *testing.T) {
	customer := shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer}
	staff := shared.Actor{UserID: uuid.New(), Role: user.RoleStaff}
	tourID := uuid.New()

	t.Run("customers are refused", func(t *testing.T) {
		_, q := setup(t)
		ctx := context.Background()

		_, err := q.ListAll(ctx, customer, queries.BookingFilter{}, queries.PageRequest{})
		assert.True(t, errs.Is(err, queries.ErrAdminOnly))
		_, err = q.ListByTour(ctx, customer, tourID, queries.BookingFilter{}, queries.PageRequest{})
		assert.True(t, errs.Is(err, queries.ErrAdminOnly))
		_, err = q.Statistics(ctx, customer)
		assert.True(t, errs.Is(err, queries.ErrAdminOnly))
	})

	t.Run("list by tour pins the tour and keeps other filters", func(t *testing.T) {
		store, q := setup(t)
		status := booking.StatusConfirmed
		from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		store.EXPECT().FindAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.BookingFilter, _ queries.PageRequest) ([]*queries.BookingView, int, error) {
				require.NotNil(t, f.TourID)
				assert.Equal(t, tourID, *f.TourID)
				assert.Equal(t, &status, f.Status)
				assert.Equal(t, &from, f.StartFrom)
				return nil, 0, nil
			})

		_, err := q.ListByTour(context.Background(), staff, tourID,
			queries.BookingFilter{Status: &status, StartFrom: &from}, queries.PageRequest{})

		require.NoError(t, err)
	})

	t.Run("statistics", func(t *testing.T) {
		store, q := setup(t)
		want := &queries.BookingStatistics{Total: 3, Pending: 1, Confirmed: 1, Cancelled: 1, TotalRevenue: 500, TotalPaid: 200}
		store.EXPECT().Statistics(gomock.Any()).Return(want, nil)

		got, err := q.Statistics(context.Background(), staff)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
