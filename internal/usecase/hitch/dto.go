package hitch

import "time"

// StartHitchRequest opens a new crew rotation. Any hitch still open is
// closed at the new hitch's start time.
type StartHitchRequest struct {
	StartedAt time.Time `validate:"required"`
	Notes     string    `validate:"max=500"`
	CreatedBy int64     `validate:"required,gt=0"`
}

// StartHitchResponse reports the new hitch and the one it closed, if any.
type StartHitchResponse struct {
	ID       int64
	ClosedID int64 // zero when no hitch was open
}

// GetHitchRequest identifies a hitch to fetch.
type GetHitchRequest struct {
	ID int64
}

// ListHitchesRequest pages the hitch history.
type ListHitchesRequest struct {
	Page  int64
	Limit int64
}

// ListHitchesResponse carries one page of hitches.
type ListHitchesResponse struct {
	Hitches    []Hitch
	Pagination Pagination
}

// Hitch is the hitch DTO for API responses.
type Hitch struct {
	ID        int64
	StartedAt time.Time
	EndedAt   *time.Time
	Notes     string
	Active    bool
	CreatedBy int64
}

// Pagination carries list paging metadata.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// NewPagination computes paging metadata for a list response.
func NewPagination(total, page, limit int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
