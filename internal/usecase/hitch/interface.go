package hitch

import "context"

// Usecase defines the interface for hitch operations.
type Usecase interface {
	StartHitch(ctx context.Context, in StartHitchRequest) (*StartHitchResponse, error)
	GetHitch(ctx context.Context, in GetHitchRequest) (*Hitch, error)
	ActiveHitch(ctx context.Context) (*Hitch, error)
	ListHitches(ctx context.Context, in ListHitchesRequest) (*ListHitchesResponse, error)
}
