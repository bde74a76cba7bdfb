package sounding

import "time"

// CreateSoundingRequest carries a new tank measurement. When NetGallons is
// zero it is derived from the tank's calibration table.
type CreateSoundingRequest struct {
	Tank        string    `validate:"required,max=100"`
	TakenAt     time.Time `validate:"required"`
	DepthInches float64   `validate:"gte=0"`
	NetGallons  float64   `validate:"gte=0"`
	RecordedBy  int64     `validate:"required,gt=0"`
}

// CreateSoundingResponse carries the new sounding's identifier.
type CreateSoundingResponse struct {
	ID         int64
	NetGallons float64
}

// UpdateSoundingRequest carries changes to an existing sounding.
type UpdateSoundingRequest struct {
	ID          int64     `validate:"required,gt=0"`
	Tank        string    `validate:"required,max=100"`
	TakenAt     time.Time `validate:"required"`
	DepthInches float64   `validate:"gte=0"`
	NetGallons  float64   `validate:"gte=0"`
}

// UpdateSoundingResponse carries the updated sounding's identifier.
type UpdateSoundingResponse struct {
	ID int64
}

// GetSoundingRequest identifies a sounding to fetch.
type GetSoundingRequest struct {
	ID int64
}

// DeleteSoundingRequest identifies a sounding to delete.
type DeleteSoundingRequest struct {
	ID int64
}

// DeleteSoundingResponse carries the deleted sounding's identifier.
type DeleteSoundingResponse struct {
	ID int64
}

// ListSoundingsRequest filters and pages the sounding history.
type ListSoundingsRequest struct {
	HitchID int64
	Tank    string
	Page    int64
	Limit   int64
}

// ListSoundingsResponse carries one page of soundings.
type ListSoundingsResponse struct {
	Soundings  []Sounding
	Pagination Pagination
}

// VolumeRequest asks for a calibration-table conversion.
type VolumeRequest struct {
	Tank        string  `validate:"required,max=100"`
	DepthInches float64 `validate:"gte=0"`
}

// VolumeResponse carries the converted volume.
type VolumeResponse struct {
	Tank        string
	DepthInches float64
	NetGallons  float64
}

// Sounding is the sounding DTO for API responses.
type Sounding struct {
	ID          int64
	HitchID     int64
	Tank        string
	TakenAt     time.Time
	DepthInches float64
	NetGallons  float64
	RecordedBy  int64
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
