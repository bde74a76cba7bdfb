package sounding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	hitchdomain "orb-service/internal/domain/hitch"
	domain "orb-service/internal/domain/sounding"
	"orb-service/internal/soundingtable"
	pkgerrors "orb-service/pkg/errors"
)

// Repository defines the interface for sounding data access operations.
type Repository interface {
	Create(ctx context.Context, s *domain.Sounding) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Sounding, error)
	Update(ctx context.Context, s *domain.Sounding) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, hitchID int64, tank string, page, limit int64) ([]domain.Sounding, int64, error)
}

// HitchResolver resolves the open hitch new soundings attach to.
type HitchResolver interface {
	GetActive(ctx context.Context) (*hitchdomain.Hitch, error)
}

// Service implements the business logic for tank soundings.
type Service struct {
	repo     Repository
	hitches  HitchResolver
	tables   *soundingtable.Set
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new sounding Service.
func New(r Repository, hitches HitchResolver, tables *soundingtable.Set, log *zap.Logger) *Service {
	return &Service{repo: r, hitches: hitches, tables: tables, log: log, validate: validator.New()}
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "gte", "gt":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// CreateSounding records a measurement against the active hitch, deriving the
// volume from the calibration table when the caller did not supply one.
func (s *Service) CreateSounding(ctx context.Context, in CreateSoundingRequest) (*CreateSoundingResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create sounding validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	active, err := s.hitches.GetActive(ctx)
	if err != nil {
		s.log.Error("failed to resolve active hitch", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to resolve active hitch", err)
	}
	if active == nil {
		return nil, pkgerrors.NewValidationError("hitch", "no active hitch; start a hitch before recording soundings")
	}

	net := in.NetGallons
	if net == 0 {
		net, err = s.tables.Volume(in.Tank, in.DepthInches)
		if err != nil {
			return nil, err
		}
	}

	id, err := s.repo.Create(ctx, &domain.Sounding{
		HitchID:     active.ID,
		Tank:        in.Tank,
		TakenAt:     in.TakenAt,
		DepthInches: in.DepthInches,
		NetGallons:  net,
		RecordedBy:  in.RecordedBy,
	})
	if err != nil {
		s.log.Error("failed to create sounding", zap.String("tank", in.Tank), zap.Error(err))
		return nil, err
	}

	return &CreateSoundingResponse{ID: id, NetGallons: net}, nil
}

// GetSounding retrieves one sounding by ID.
func (s *Service) GetSounding(ctx context.Context, in GetSoundingRequest) (*Sounding, error) {
	if in.ID <= 0 {
		return nil, pkgerrors.NewValidationError("id", "invalid sounding id")
	}

	d, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	return toDTO(d), nil
}

// UpdateSounding corrects an existing record, re-deriving the volume when the
// caller did not supply one.
func (s *Service) UpdateSounding(ctx context.Context, in UpdateSoundingRequest) (*UpdateSoundingResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update sounding validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	net := in.NetGallons
	if net == 0 {
		net, err = s.tables.Volume(in.Tank, in.DepthInches)
		if err != nil {
			return nil, err
		}
	}

	existing.Tank = in.Tank
	existing.TakenAt = in.TakenAt
	existing.DepthInches = in.DepthInches
	existing.NetGallons = net

	id, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.log.Error("failed to update sounding", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateSoundingResponse{ID: id}, nil
}

// DeleteSounding removes a record.
func (s *Service) DeleteSounding(ctx context.Context, in DeleteSoundingRequest) (*DeleteSoundingResponse, error) {
	if in.ID <= 0 {
		return nil, pkgerrors.NewValidationError("id", "invalid sounding id")
	}

	id, err := s.repo.Delete(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to delete sounding", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteSoundingResponse{ID: id}, nil
}

// ListSoundings retrieves a filtered page of the sounding history.
func (s *Service) ListSoundings(ctx context.Context, in ListSoundingsRequest) (*ListSoundingsResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	items, total, err := s.repo.List(ctx, in.HitchID, in.Tank, in.Page, in.Limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid search query") {
			return nil, pkgerrors.NewValidationError("tank", "invalid tank filter")
		}
		s.log.Error("failed to list soundings", zap.Error(err))
		return nil, err
	}

	dtos := make([]Sounding, len(items))
	for i := range items {
		dtos[i] = *toDTO(&items[i])
	}

	return &ListSoundingsResponse{
		Soundings:  dtos,
		Pagination: NewPagination(total, in.Page, in.Limit),
	}, nil
}

// Volume converts a depth to net gallons via the tank's calibration table.
func (s *Service) Volume(ctx context.Context, in VolumeRequest) (*VolumeResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, formatValidationError(err)
	}

	net, err := s.tables.Volume(in.Tank, in.DepthInches)
	if err != nil {
		return nil, err
	}

	return &VolumeResponse{Tank: in.Tank, DepthInches: in.DepthInches, NetGallons: net}, nil
}

// Tanks lists the tanks with calibration tables.
func (s *Service) Tanks(_ context.Context) []string {
	return s.tables.Tanks()
}

func toDTO(d *domain.Sounding) *Sounding {
	return &Sounding{
		ID:          d.ID,
		HitchID:     d.HitchID,
		Tank:        d.Tank,
		TakenAt:     d.TakenAt,
		DepthInches: d.DepthInches,
		NetGallons:  d.NetGallons,
		RecordedBy:  d.RecordedBy,
	}
}
