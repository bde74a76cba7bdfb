package sounding

import "context"

// Usecase defines the interface for sounding operations.
type Usecase interface {
	CreateSounding(ctx context.Context, in CreateSoundingRequest) (*CreateSoundingResponse, error)
	GetSounding(ctx context.Context, in GetSoundingRequest) (*Sounding, error)
	UpdateSounding(ctx context.Context, in UpdateSoundingRequest) (*UpdateSoundingResponse, error)
	DeleteSounding(ctx context.Context, in DeleteSoundingRequest) (*DeleteSoundingResponse, error)
	ListSoundings(ctx context.Context, in ListSoundingsRequest) (*ListSoundingsResponse, error)
	Volume(ctx context.Context, in VolumeRequest) (*VolumeResponse, error)
	Tanks(ctx context.Context) []string
}
