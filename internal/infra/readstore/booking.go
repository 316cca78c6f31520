package readstore

import (
	"context"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadQueries interface {
	GetBookingViewByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.BookingViewRow, error)
	GetBookingViewByCode(ctx context.Context, db pgquery.DBTX, code string) (pgquery.BookingViewRow, error)
	ListBookingViews(ctx context.Context, db pgquery.DBTX, arg pgquery.ListBookingsParams) ([]pgquery.BookingViewRow, error)
	CountBookings(ctx context.Context, db pgquery.DBTX, arg pgquery.ListBookingsParams) (int64, error)
	GetBookingStatistics(ctx context.Context, db pgquery.DBTX) (pgquery.BookingStatistics, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      pgquery.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db pgquery.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingViewByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return converter.BookingViewFromInfra(row)
}

func (r *BookingReadStore) FindByCode(ctx context.Context, code string) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingViewByCode(ctx, r.db, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by code", err)
	}
	return converter.BookingViewFromInfra(row)
}

func (r *BookingReadStore) FindAll(ctx context.Context, filter queries.BookingFilter, page queries.PageRequest) ([]*queries.BookingView, int, error) {
	params := toListParams(filter, page)

	total, err := r.queries.CountBookings(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	if total == 0 {
		return []*queries.BookingView{}, 0, nil
	}

	rows, err := r.queries.ListBookingViews(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list bookings", err)
	}

	views := make([]*queries.BookingView, 0, len(rows))
	for _, row := range rows {
		v, err := converter.BookingViewFromInfra(row)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, int(total), nil
}

func (r *BookingReadStore) Statistics(ctx context.Context) (*queries.BookingStatistics, error) {
	s, err := r.queries.GetBookingStatistics(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to compute booking statistics", err)
	}
	return &queries.BookingStatistics{
		Total:        int(s.Total),
		Pending:      int(s.Pending),
		Confirmed:    int(s.Confirmed),
		Completed:    int(s.Completed),
		Cancelled:    int(s.Cancelled),
		TotalRevenue: s.TotalRevenue,
		TotalPaid:    s.TotalPaid,
	}, nil
}

func toListParams(filter queries.BookingFilter, page queries.PageRequest) pgquery.ListBookingsParams {
	params := pgquery.ListBookingsParams{
		OrderBy: page.SortBy,
		Desc:    page.SortOrder == queries.SortDesc,
		Limit:   int32(page.Limit),
		Offset:  int32(page.Offset()),
	}
	if filter.Status != nil {
		params.Status = pgtype.Text{String: filter.Status.String(), Valid: true}
	}
	if filter.UserID != nil {
		params.UserID = pgconv.UUIDToPgtype(*filter.UserID)
	}
	if filter.TourID != nil {
		params.TourID = pgconv.UUIDToPgtype(*filter.TourID)
	}
	if filter.StartFrom != nil {
		params.StartFrom = pgconv.DateToPgtype(*filter.StartFrom)
	}
	if filter.StartTo != nil {
		params.StartTo = pgconv.DateToPgtype(*filter.StartTo)
	}
	return params
}
