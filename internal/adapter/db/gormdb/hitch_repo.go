package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orb-service/internal/domain/hitch"
	pkgerrors "orb-service/pkg/errors"
)

// HitchRepo implements the hitch usecase Repository interface on GORM.
type HitchRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewHitchRepo creates a new instance of HitchRepo.
func NewHitchRepo(db *gorm.DB, log *zap.Logger) *HitchRepo {
	return &HitchRepo{db: db, log: log}
}

// HitchSchema represents the database schema for the hitches table.
type HitchSchema struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	StartedAt time.Time  `gorm:"not null;index"`
	EndedAt   *time.Time `gorm:"index"`
	Notes     string
	CreatedBy int64 `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the HitchSchema model.
func (HitchSchema) TableName() string {
	return "hitches"
}

func (m *HitchSchema) toDomain() *hitch.Hitch {
	return &hitch.Hitch{
		ID:        m.ID,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Notes:     m.Notes,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// Create inserts a new hitch into the database.
func (r *HitchRepo) Create(ctx context.Context, h *hitch.Hitch) (int64, error) {
	if h == nil {
		return 0, errors.New("hitch cannot be nil")
	}

	model := HitchSchema{
		StartedAt: h.StartedAt,
		EndedAt:   h.EndedAt,
		Notes:     h.Notes,
		CreatedBy: h.CreatedBy,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create hitch in db", zap.Error(err))
		return 0, fmt.Errorf("failed to create hitch: %w", err)
	}

	r.log.Info("hitch created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a hitch by ID.
func (r *HitchRepo) GetByID(ctx context.Context, id int64) (*hitch.Hitch, error) {
	var model HitchSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("hitch", fmt.Sprintf("hitch not found: id=%d", id))
		}
		r.log.Error("failed to get hitch from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get hitch: %w", err)
	}

	return model.toDomain(), nil
}

// GetActive retrieves the open hitch, or (nil, nil) when none is open.
func (r *HitchRepo) GetActive(ctx context.Context) (*hitch.Hitch, error) {
	var model HitchSchema
	err := r.db.WithContext(ctx).Where("ended_at IS NULL").Order("started_at DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get active hitch from db", zap.Error(err))
		return nil, fmt.Errorf("failed to get active hitch: %w", err)
	}

	return model.toDomain(), nil
}

// Close stamps the hitch's end time.
func (r *HitchRepo) Close(ctx context.Context, id int64, endedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&HitchSchema{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", endedAt)
	if result.Error != nil {
		r.log.Error("failed to close hitch in db", zap.Error(result.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to close hitch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("hitch", fmt.Sprintf("open hitch not found: id=%d", id))
	}

	r.log.Info("hitch closed in db", zap.Int64("id", id), zap.Time("ended_at", endedAt))
	return nil
}

// List retrieves hitches newest first with pagination.
func (r *HitchRepo) List(ctx context.Context, page, limit int64) ([]hitch.Hitch, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&HitchSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count hitches in db", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count hitches: %w", err)
	}

	var models []HitchSchema
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list hitches from db", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list hitches: %w", err)
	}

	hitches := make([]hitch.Hitch, len(models))
	for i, model := range models {
		hitches[i] = *model.toDomain()
	}

	return hitches, total, nil
}
