package queries

import (
	"math"

	"tour-booking/internal/pkg/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ErrInvalidSort    = errs.NewKind("invalid sort parameter", errs.ErrInvalidInput)
	ErrPageOutOfRange = errs.NewKind("page is out of range", errs.ErrInvalidInput)
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PageRequest is an offset page with an optional sort. Zero values take
// the defaults.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

var sortableFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"startDate": true,
	"total":     true,
}

// Normalize applies defaults and clamps the limit to maxLimit. The offset
// must fit the int32 the store pages with.
func (p PageRequest) Normalize(defaultLimit, maxLimit int) (PageRequest, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Page-1 > math.MaxInt32/p.Limit {
		return p, ErrPageOutOfRange
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if !sortableFields[p.SortBy] {
		return p, ErrInvalidSort
	}
	switch p.SortOrder {
	case "":
		p.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return p, ErrInvalidSort
	}
	return p, nil
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(p PageRequest, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
