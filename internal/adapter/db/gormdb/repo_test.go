package gormdb

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"orb-service/internal/domain/fuel"
	"orb-service/internal/domain/hitch"
	"orb-service/internal/domain/sounding"
	"orb-service/internal/domain/user"
	pkgerrors "orb-service/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Migrate the schema
	err = db.AutoMigrate(&UserSchema{}, &HitchSchema{}, &SoundingSchema{}, &FuelTicketSchema{})
	require.NoError(t, err)

	return db
}

// ==================== USER REPO TESTS ====================

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, &user.User{
		Username:     "deckhand",
		Email:        "deckhand@example.com",
		PasswordHash: "hash",
		Role:         user.RoleCrew,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "deckhand", got.Username)
	assert.Equal(t, user.RoleCrew, got.Role)

	byName, err := repo.GetByUsername(ctx, "deckhand")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
}

func TestUserRepo_GetByUsername_Absent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, zaptest.NewLogger(t))

	got, err := repo.GetByUsername(context.Background(), "nobody")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, zaptest.NewLogger(t))

	got, err := repo.GetByID(context.Background(), 404)

	assert.Nil(t, got)
	var nfErr *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &user.User{Username: "deckhand", Email: "a@example.com", PasswordHash: "h", Role: user.RoleCrew})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &user.User{Username: "deckhand", Email: "b@example.com", PasswordHash: "h", Role: user.RoleCrew})

	var existsErr *pkgerrors.AlreadyExistsError
	assert.ErrorAs(t, err, &existsErr)
}

// ==================== HITCH REPO TESTS ====================

func TestHitchRepo_ActiveLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHitchRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	id, err := repo.Create(ctx, &hitch.Hitch{StartedAt: start, Notes: "spring crew", CreatedBy: 1})
	require.NoError(t, err)

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, id, active.ID)
	assert.True(t, active.Active())

	end := start.AddDate(0, 1, 0)
	require.NoError(t, repo.Close(ctx, id, end))

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	closed, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, closed.EndedAt)
	assert.True(t, closed.EndedAt.Equal(end))
}

func TestHitchRepo_Close_AlreadyClosed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHitchRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	id, err := repo.Create(ctx, &hitch.Hitch{StartedAt: start, CreatedBy: 1})
	require.NoError(t, err)
	require.NoError(t, repo.Close(ctx, id, start.AddDate(0, 1, 0)))

	err = repo.Close(ctx, id, start.AddDate(0, 2, 0))

	var nfErr *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestHitchRepo_List_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHitchRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &hitch.Hitch{StartedAt: base.AddDate(0, i, 0), CreatedBy: 1})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].StartedAt.After(items[1].StartedAt))
}

// ==================== SOUNDING REPO TESTS ====================

func seedHitch(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	repo := NewHitchRepo(db, zaptest.NewLogger(t))
	id, err := repo.Create(context.Background(), &hitch.Hitch{
		StartedAt: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
		CreatedBy: 1,
	})
	require.NoError(t, err)
	return id
}

func TestSoundingRepo_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSoundingRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	hitchID := seedHitch(t, db)
	takenAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	id, err := repo.Create(ctx, &sounding.Sounding{
		HitchID:     hitchID,
		Tank:        "Day Tank",
		TakenAt:     takenAt,
		DepthInches: 12,
		NetGallons:  150,
		RecordedBy:  1,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Day Tank", got.Tank)
	assert.Equal(t, float64(150), got.NetGallons)

	got.DepthInches = 14
	got.NetGallons = 175
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, float64(175), updated.NetGallons)

	_, err = repo.Delete(ctx, id)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, id)
	var nfErr *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestSoundingRepo_List_FilterByTank(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSoundingRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	hitchID := seedHitch(t, db)
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i, tank := range []string{"Day Tank", "Port Fuel", "Day Tank"} {
		_, err := repo.Create(ctx, &sounding.Sounding{
			HitchID: hitchID, Tank: tank, TakenAt: base.Add(time.Duration(i) * time.Hour),
			DepthInches: 10, NetGallons: 100, RecordedBy: 1,
		})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, hitchID, "Day", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	// Newest first.
	assert.True(t, items[0].TakenAt.After(items[1].TakenAt))
}

func TestSoundingRepo_List_RejectsInjection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSoundingRepo(db, zaptest.NewLogger(t))

	_, _, err := repo.List(context.Background(), 0, "'; DROP TABLE soundings--", 1, 10)

	assert.ErrorContains(t, err, "invalid search query")
}

// ==================== FUEL TICKET REPO TESTS ====================

func TestFuelTicketRepo_UniqueTicketNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuelTicketRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	hitchID := seedHitch(t, db)

	ticket := &fuel.Ticket{
		HitchID:         hitchID,
		TicketNumber:    "FT-1001",
		TicketDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Supplier:        "Gulf Coast Fuels",
		Tank:            "Port Fuel",
		GallonsReceived: 1500,
		RecordedBy:      1,
	}
	_, err := repo.Create(ctx, ticket)
	require.NoError(t, err)

	dup := *ticket
	_, err = repo.Create(ctx, &dup)

	var existsErr *pkgerrors.AlreadyExistsError
	assert.ErrorAs(t, err, &existsErr)
}

func TestFuelTicketRepo_GetByTicketNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuelTicketRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	hitchID := seedHitch(t, db)

	got, err := repo.GetByTicketNumber(ctx, "FT-1001")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Create(ctx, &fuel.Ticket{
		HitchID: hitchID, TicketNumber: "FT-1001",
		TicketDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Tank:       "Port Fuel", GallonsReceived: 1500, RecordedBy: 1,
	})
	require.NoError(t, err)

	got, err = repo.GetByTicketNumber(ctx, "FT-1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "FT-1001", got.TicketNumber)
}

func TestFuelTicketRepo_List_SearchNumberAndSupplier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuelTicketRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()
	hitchID := seedHitch(t, db)
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	seed := []fuel.Ticket{
		{TicketNumber: "FT-1001", Supplier: "Gulf Coast Fuels"},
		{TicketNumber: "FT-1002", Supplier: "Delta Marine"},
		{TicketNumber: "GC-2001", Supplier: "Gulf Coast Fuels"},
	}
	for i := range seed {
		seed[i].HitchID = hitchID
		seed[i].TicketDate = base.AddDate(0, 0, i)
		seed[i].Tank = "Port Fuel"
		seed[i].GallonsReceived = 100
		seed[i].RecordedBy = 1
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, hitchID, "Gulf", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	items, total, err = repo.List(ctx, hitchID, "FT-100", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
}
