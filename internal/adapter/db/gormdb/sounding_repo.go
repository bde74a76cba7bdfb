package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orb-service/internal/domain/sounding"
	pkgerrors "orb-service/pkg/errors"
	"orb-service/pkg/security"
)

// SoundingRepo implements the sounding usecase Repository interface on GORM.
type SoundingRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSoundingRepo creates a new instance of SoundingRepo.
func NewSoundingRepo(db *gorm.DB, log *zap.Logger) *SoundingRepo {
	return &SoundingRepo{db: db, log: log}
}

// SoundingSchema represents the database schema for the soundings table.
type SoundingSchema struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	HitchID     int64     `gorm:"not null;index"`
	Tank        string    `gorm:"not null;index"`
	TakenAt     time.Time `gorm:"not null;index"`
	DepthInches float64   `gorm:"not null"`
	NetGallons  float64   `gorm:"not null"`
	RecordedBy  int64     `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName specifies the table name for the SoundingSchema model.
func (SoundingSchema) TableName() string {
	return "soundings"
}

func (m *SoundingSchema) toDomain() *sounding.Sounding {
	return &sounding.Sounding{
		ID:          m.ID,
		HitchID:     m.HitchID,
		Tank:        m.Tank,
		TakenAt:     m.TakenAt,
		DepthInches: m.DepthInches,
		NetGallons:  m.NetGallons,
		RecordedBy:  m.RecordedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// Create inserts a new sounding into the database.
func (r *SoundingRepo) Create(ctx context.Context, s *sounding.Sounding) (int64, error) {
	if s == nil {
		return 0, errors.New("sounding cannot be nil")
	}

	model := SoundingSchema{
		HitchID:     s.HitchID,
		Tank:        s.Tank,
		TakenAt:     s.TakenAt,
		DepthInches: s.DepthInches,
		NetGallons:  s.NetGallons,
		RecordedBy:  s.RecordedBy,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create sounding in db", zap.Error(err), zap.String("tank", s.Tank))
		return 0, fmt.Errorf("failed to create sounding: %w", err)
	}

	r.log.Info("sounding created in db", zap.Int64("id", model.ID), zap.String("tank", s.Tank))
	return model.ID, nil
}

// GetByID retrieves a sounding by ID.
func (r *SoundingRepo) GetByID(ctx context.Context, id int64) (*sounding.Sounding, error) {
	var model SoundingSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("sounding", fmt.Sprintf("sounding not found: id=%d", id))
		}
		r.log.Error("failed to get sounding from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get sounding: %w", err)
	}

	return model.toDomain(), nil
}

// Update saves an existing sounding.
func (r *SoundingRepo) Update(ctx context.Context, s *sounding.Sounding) (int64, error) {
	if s == nil {
		return 0, errors.New("sounding cannot be nil")
	}

	model := SoundingSchema{
		ID:          s.ID,
		HitchID:     s.HitchID,
		Tank:        s.Tank,
		TakenAt:     s.TakenAt,
		DepthInches: s.DepthInches,
		NetGallons:  s.NetGallons,
		RecordedBy:  s.RecordedBy,
		CreatedAt:   s.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to update sounding in db", zap.Error(err), zap.Int64("id", s.ID))
		return 0, fmt.Errorf("failed to update sounding: %w", err)
	}

	r.log.Info("sounding updated in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Delete removes a sounding by ID.
func (r *SoundingRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, errors.New("invalid sounding id")
	}

	if err := r.db.WithContext(ctx).Delete(&SoundingSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete sounding in db", zap.Error(err), zap.Int64("id", id))
		return 0, fmt.Errorf("failed to delete sounding: %w", err)
	}

	r.log.Info("sounding deleted in db", zap.Int64("id", id))
	return id, nil
}

// List retrieves soundings newest first, optionally filtered by hitch and
// tank, with pagination. The tank filter is validated before it reaches the
// LIKE clause.
func (r *SoundingRepo) List(ctx context.Context, hitchID int64, tank string, page, limit int64) ([]sounding.Sounding, int64, error) {
	tank, err := security.ValidateSearchQuery(tank)
	if err != nil {
		r.log.Warn("rejected sounding list filter", zap.Error(err))
		return nil, 0, fmt.Errorf("invalid search query: %w", err)
	}

	q := r.db.WithContext(ctx).Model(&SoundingSchema{})
	if hitchID > 0 {
		q = q.Where("hitch_id = ?", hitchID)
	}
	if tank != "" {
		q = q.Where("tank LIKE ?", "%"+security.SanitizeSearchString(tank)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.log.Error("failed to count soundings in db", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count soundings: %w", err)
	}

	var models []SoundingSchema
	err = q.Order("taken_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list soundings from db", zap.Error(err), zap.Int64("hitch_id", hitchID))
		return nil, 0, fmt.Errorf("failed to list soundings: %w", err)
	}

	soundings := make([]sounding.Sounding, len(models))
	for i, model := range models {
		soundings[i] = *model.toDomain()
	}

	return soundings, total, nil
}
