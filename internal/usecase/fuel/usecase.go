package fuel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "orb-service/internal/domain/fuel"
	hitchdomain "orb-service/internal/domain/hitch"
	pkgerrors "orb-service/pkg/errors"
)

// Repository defines the interface for fuel ticket data access operations.
type Repository interface {
	Create(ctx context.Context, t *domain.Ticket) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByTicketNumber(ctx context.Context, number string) (*domain.Ticket, error)
	Update(ctx context.Context, t *domain.Ticket) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, hitchID int64, query string, page, limit int64) ([]domain.Ticket, int64, error)
}

// HitchResolver resolves the open hitch new tickets attach to.
type HitchResolver interface {
	GetActive(ctx context.Context) (*hitchdomain.Hitch, error)
}

// Service implements the business logic for fuel ticket tracking.
type Service struct {
	repo     Repository
	hitches  HitchResolver
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new fuel ticket Service.
func New(r Repository, hitches HitchResolver, log *zap.Logger) *Service {
	return &Service{repo: r, hitches: hitches, log: log, validate: validator.New()}
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

// CreateTicket records a fuel delivery against the active hitch, enforcing
// ticket number uniqueness.
func (s *Service) CreateTicket(ctx context.Context, in CreateTicketRequest) (*CreateTicketResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create fuel ticket validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	active, err := s.hitches.GetActive(ctx)
	if err != nil {
		s.log.Error("failed to resolve active hitch", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to resolve active hitch", err)
	}
	if active == nil {
		return nil, pkgerrors.NewValidationError("hitch", "no active hitch; start a hitch before recording fuel tickets")
	}

	existing, err := s.repo.GetByTicketNumber(ctx, in.TicketNumber)
	if err != nil {
		s.log.Error("failed to check ticket number uniqueness", zap.String("ticket_number", in.TicketNumber), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to check ticket number uniqueness", err)
	}
	if existing != nil {
		return nil, pkgerrors.NewAlreadyExistsError("fuel ticket", fmt.Sprintf("ticket number %q already exists", in.TicketNumber))
	}

	id, err := s.repo.Create(ctx, &domain.Ticket{
		HitchID:         active.ID,
		TicketNumber:    in.TicketNumber,
		TicketDate:      in.TicketDate,
		Supplier:        in.Supplier,
		Tank:            in.Tank,
		GallonsReceived: in.GallonsReceived,
		RecordedBy:      in.RecordedBy,
	})
	if err != nil {
		s.log.Error("failed to create fuel ticket", zap.String("ticket_number", in.TicketNumber), zap.Error(err))
		return nil, err
	}

	return &CreateTicketResponse{ID: id}, nil
}

// GetTicket retrieves one fuel ticket by ID.
func (s *Service) GetTicket(ctx context.Context, in GetTicketRequest) (*Ticket, error) {
	if in.ID <= 0 {
		return nil, pkgerrors.NewValidationError("id", "invalid fuel ticket id")
	}

	d, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	return toDTO(d), nil
}

// UpdateTicket corrects an existing ticket, keeping ticket numbers unique.
func (s *Service) UpdateTicket(ctx context.Context, in UpdateTicketRequest) (*UpdateTicketResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update fuel ticket validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	byNumber, err := s.repo.GetByTicketNumber(ctx, in.TicketNumber)
	if err != nil {
		s.log.Error("failed to check ticket number uniqueness", zap.String("ticket_number", in.TicketNumber), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to check ticket number uniqueness", err)
	}
	if byNumber != nil && byNumber.ID != in.ID {
		return nil, pkgerrors.NewAlreadyExistsError("fuel ticket", fmt.Sprintf("ticket number %q already exists", in.TicketNumber))
	}

	existing.TicketNumber = in.TicketNumber
	existing.TicketDate = in.TicketDate
	existing.Supplier = in.Supplier
	existing.Tank = in.Tank
	existing.GallonsReceived = in.GallonsReceived

	id, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.log.Error("failed to update fuel ticket", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateTicketResponse{ID: id}, nil
}

// DeleteTicket removes a ticket.
func (s *Service) DeleteTicket(ctx context.Context, in DeleteTicketRequest) (*DeleteTicketResponse, error) {
	if in.ID <= 0 {
		return nil, pkgerrors.NewValidationError("id", "invalid fuel ticket id")
	}

	id, err := s.repo.Delete(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to delete fuel ticket", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteTicketResponse{ID: id}, nil
}

// ListTickets retrieves a filtered page of the fuel ticket history.
func (s *Service) ListTickets(ctx context.Context, in ListTicketsRequest) (*ListTicketsResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	items, total, err := s.repo.List(ctx, in.HitchID, in.Query, in.Page, in.Limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid search query") {
			return nil, pkgerrors.NewValidationError("query", "invalid search filter")
		}
		s.log.Error("failed to list fuel tickets", zap.Error(err))
		return nil, err
	}

	dtos := make([]Ticket, len(items))
	for i := range items {
		dtos[i] = *toDTO(&items[i])
	}

	return &ListTicketsResponse{
		Tickets:    dtos,
		Pagination: NewPagination(total, in.Page, in.Limit),
	}, nil
}

func toDTO(d *domain.Ticket) *Ticket {
	return &Ticket{
		ID:              d.ID,
		HitchID:         d.HitchID,
		TicketNumber:    d.TicketNumber,
		TicketDate:      d.TicketDate,
		Supplier:        d.Supplier,
		Tank:            d.Tank,
		GallonsReceived: d.GallonsReceived,
		RecordedBy:      d.RecordedBy,
	}
}
