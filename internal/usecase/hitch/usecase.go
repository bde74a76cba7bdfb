package hitch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "orb-service/internal/domain/hitch"
	pkgerrors "orb-service/pkg/errors"
)

// Repository defines the interface for hitch data access operations.
type Repository interface {
	Create(ctx context.Context, h *domain.Hitch) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Hitch, error)
	GetActive(ctx context.Context) (*domain.Hitch, error)
	Close(ctx context.Context, id int64, endedAt time.Time) error
	List(ctx context.Context, page, limit int64) ([]domain.Hitch, int64, error)
}

// Service implements the business logic for hitch rotation tracking.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new hitch Service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "gt":
				messages = append(messages, fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param()))
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

// StartHitch opens a new rotation, first closing the currently open one at
// the new rotation's start time.
func (s *Service) StartHitch(ctx context.Context, in StartHitchRequest) (*StartHitchResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("start hitch validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	active, err := s.repo.GetActive(ctx)
	if err != nil {
		s.log.Error("failed to resolve active hitch", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to resolve active hitch", err)
	}

	var closedID int64
	if active != nil {
		if !in.StartedAt.After(active.StartedAt) {
			return nil, pkgerrors.NewValidationError("started_at", "new hitch must start after the active hitch began")
		}
		if err := s.repo.Close(ctx, active.ID, in.StartedAt); err != nil {
			s.log.Error("failed to close active hitch", zap.Int64("id", active.ID), zap.Error(err))
			return nil, err
		}
		closedID = active.ID
		s.log.Info("closed active hitch", zap.Int64("id", active.ID))
	}

	id, err := s.repo.Create(ctx, &domain.Hitch{
		StartedAt: in.StartedAt,
		Notes:     in.Notes,
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		s.log.Error("failed to create hitch", zap.Error(err))
		return nil, err
	}

	s.log.Info("hitch started", zap.Int64("id", id), zap.Int64("closed_id", closedID))
	return &StartHitchResponse{ID: id, ClosedID: closedID}, nil
}

// GetHitch retrieves one hitch by ID.
func (s *Service) GetHitch(ctx context.Context, in GetHitchRequest) (*Hitch, error) {
	if in.ID <= 0 {
		return nil, pkgerrors.NewValidationError("id", "invalid hitch id")
	}

	d, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	return toDTO(d), nil
}

// ActiveHitch returns the open hitch, or nil when none is open.
func (s *Service) ActiveHitch(ctx context.Context) (*Hitch, error) {
	d, err := s.repo.GetActive(ctx)
	if err != nil {
		s.log.Error("failed to resolve active hitch", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to resolve active hitch", err)
	}
	if d == nil {
		return nil, nil
	}
	return toDTO(d), nil
}

// ListHitches retrieves a page of the hitch history, newest first.
func (s *Service) ListHitches(ctx context.Context, in ListHitchesRequest) (*ListHitchesResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	items, total, err := s.repo.List(ctx, in.Page, in.Limit)
	if err != nil {
		s.log.Error("failed to list hitches", zap.Error(err))
		return nil, err
	}

	dtos := make([]Hitch, len(items))
	for i := range items {
		dtos[i] = *toDTO(&items[i])
	}

	return &ListHitchesResponse{
		Hitches:    dtos,
		Pagination: NewPagination(total, in.Page, in.Limit),
	}, nil
}

func toDTO(d *domain.Hitch) *Hitch {
	return &Hitch{
		ID:        d.ID,
		StartedAt: d.StartedAt,
		EndedAt:   d.EndedAt,
		Notes:     d.Notes,
		Active:    d.Active(),
		CreatedBy: d.CreatedBy,
	}
}
