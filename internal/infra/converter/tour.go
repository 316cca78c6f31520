package converter

import (
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/pkg/pgconv"
)

func TourFromInfra(row pgquery.Tours) *tour.Tour {
	return &tour.Tour{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		Status:       tour.Status(row.Status),
		MinGroupSize: int(row.MinGroupSize),
		MaxGroupSize: int(row.MaxGroupSize),
		Prices: tour.Prices{
			Adult:  row.PriceAdult,
			Child:  row.PriceChild,
			Infant: row.PriceInfant,
		},
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}

func DateSlotFromInfra(row pgquery.TourDates) tour.DateSlot {
	return tour.DateSlot{
		TourID:      row.TourID,
		StartDate:   pgconv.DateFromPgtype(row.StartDate),
		EndDate:     pgconv.DateFromPgtype(row.EndDate),
		MaxSlots:    int(row.MaxSlots),
		BookedSlots: int(row.BookedSlots),
	}
}
