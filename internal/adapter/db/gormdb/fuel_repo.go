package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orb-service/internal/domain/fuel"
	pkgerrors "orb-service/pkg/errors"
	"orb-service/pkg/security"
)

// FuelTicketRepo implements the fuel usecase Repository interface on GORM.
type FuelTicketRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewFuelTicketRepo creates a new instance of FuelTicketRepo.
func NewFuelTicketRepo(db *gorm.DB, log *zap.Logger) *FuelTicketRepo {
	return &FuelTicketRepo{db: db, log: log}
}

// FuelTicketSchema represents the database schema for the fuel_tickets table.
type FuelTicketSchema struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	HitchID         int64     `gorm:"not null;index"`
	TicketNumber    string    `gorm:"not null;unique"`
	TicketDate      time.Time `gorm:"not null;index"`
	Supplier        string
	Tank            string  `gorm:"not null"`
	GallonsReceived float64 `gorm:"not null"`
	RecordedBy      int64   `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName specifies the table name for the FuelTicketSchema model.
func (FuelTicketSchema) TableName() string {
	return "fuel_tickets"
}

func (m *FuelTicketSchema) toDomain() *fuel.Ticket {
	return &fuel.Ticket{
		ID:              m.ID,
		HitchID:         m.HitchID,
		TicketNumber:    m.TicketNumber,
		TicketDate:      m.TicketDate,
		Supplier:        m.Supplier,
		Tank:            m.Tank,
		GallonsReceived: m.GallonsReceived,
		RecordedBy:      m.RecordedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// Create inserts a new fuel ticket into the database.
func (r *FuelTicketRepo) Create(ctx context.Context, t *fuel.Ticket) (int64, error) {
	if t == nil {
		return 0, errors.New("fuel ticket cannot be nil")
	}

	model := FuelTicketSchema{
		HitchID:         t.HitchID,
		TicketNumber:    t.TicketNumber,
		TicketDate:      t.TicketDate,
		Supplier:        t.Supplier,
		Tank:            t.Tank,
		GallonsReceived: t.GallonsReceived,
		RecordedBy:      t.RecordedBy,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, pkgerrors.NewAlreadyExistsError("fuel ticket", fmt.Sprintf("ticket number %q already exists", t.TicketNumber))
		}
		r.log.Error("failed to create fuel ticket in db", zap.Error(err), zap.String("ticket_number", t.TicketNumber))
		return 0, fmt.Errorf("failed to create fuel ticket: %w", err)
	}

	r.log.Info("fuel ticket created in db", zap.Int64("id", model.ID), zap.String("ticket_number", t.TicketNumber))
	return model.ID, nil
}

// GetByID retrieves a fuel ticket by ID.
func (r *FuelTicketRepo) GetByID(ctx context.Context, id int64) (*fuel.Ticket, error) {
	var model FuelTicketSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("fuel ticket", fmt.Sprintf("fuel ticket not found: id=%d", id))
		}
		r.log.Error("failed to get fuel ticket from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get fuel ticket: %w", err)
	}

	return model.toDomain(), nil
}

// GetByTicketNumber retrieves a fuel ticket by its unique ticket number.
// Returns (nil, nil) when no such ticket exists.
func (r *FuelTicketRepo) GetByTicketNumber(ctx context.Context, number string) (*fuel.Ticket, error) {
	var model FuelTicketSchema
	if err := r.db.WithContext(ctx).Where("ticket_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get fuel ticket by number from db", zap.Error(err), zap.String("ticket_number", number))
		return nil, fmt.Errorf("failed to get fuel ticket by number: %w", err)
	}

	return model.toDomain(), nil
}

// Update saves an existing fuel ticket.
func (r *FuelTicketRepo) Update(ctx context.Context, t *fuel.Ticket) (int64, error) {
	if t == nil {
		return 0, errors.New("fuel ticket cannot be nil")
	}

	model := FuelTicketSchema{
		ID:              t.ID,
		HitchID:         t.HitchID,
		TicketNumber:    t.TicketNumber,
		TicketDate:      t.TicketDate,
		Supplier:        t.Supplier,
		Tank:            t.Tank,
		GallonsReceived: t.GallonsReceived,
		RecordedBy:      t.RecordedBy,
		CreatedAt:       t.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, pkgerrors.NewAlreadyExistsError("fuel ticket", fmt.Sprintf("ticket number %q already exists", t.TicketNumber))
		}
		r.log.Error("failed to update fuel ticket in db", zap.Error(err), zap.Int64("id", t.ID))
		return 0, fmt.Errorf("failed to update fuel ticket: %w", err)
	}

	r.log.Info("fuel ticket updated in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Delete removes a fuel ticket by ID.
func (r *FuelTicketRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, errors.New("invalid fuel ticket id")
	}

	if err := r.db.WithContext(ctx).Delete(&FuelTicketSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete fuel ticket in db", zap.Error(err), zap.Int64("id", id))
		return 0, fmt.Errorf("failed to delete fuel ticket: %w", err)
	}

	r.log.Info("fuel ticket deleted in db", zap.Int64("id", id))
	return id, nil
}

// List retrieves fuel tickets newest first, optionally filtered by hitch and
// a ticket-number/supplier search, with pagination.
func (r *FuelTicketRepo) List(ctx context.Context, hitchID int64, query string, page, limit int64) ([]fuel.Ticket, int64, error) {
	query, err := security.ValidateSearchQuery(query)
	if err != nil {
		r.log.Warn("rejected fuel ticket list filter", zap.Error(err))
		return nil, 0, fmt.Errorf("invalid search query: %w", err)
	}

	q := r.db.WithContext(ctx).Model(&FuelTicketSchema{})
	if hitchID > 0 {
		q = q.Where("hitch_id = ?", hitchID)
	}
	if query != "" {
		like := "%" + security.SanitizeSearchString(query) + "%"
		q = q.Where("ticket_number LIKE ? OR supplier LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.log.Error("failed to count fuel tickets in db", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count fuel tickets: %w", err)
	}

	var models []FuelTicketSchema
	err = q.Order("ticket_date DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list fuel tickets from db", zap.Error(err), zap.Int64("hitch_id", hitchID))
		return nil, 0, fmt.Errorf("failed to list fuel tickets: %w", err)
	}

	tickets := make([]fuel.Ticket, len(models))
	for i, model := range models {
		tickets[i] = *model.toDomain()
	}

	return tickets, total, nil
}
