package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"orb-service/internal/adapter/gin/middleware"
	domain "orb-service/internal/domain/user"
	usecase "orb-service/internal/usecase/sounding"
	pkgerrors "orb-service/pkg/errors"
)

// MockSoundingUsecase is a mock implementation of sounding.Usecase
type MockSoundingUsecase struct {
	mock.Mock
}

func (m *MockSoundingUsecase) CreateSounding(ctx context.Context, req usecase.CreateSoundingRequest) (*usecase.CreateSoundingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateSoundingResponse), args.Error(1)
}

func (m *MockSoundingUsecase) GetSounding(ctx context.Context, req usecase.GetSoundingRequest) (*usecase.Sounding, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Sounding), args.Error(1)
}

func (m *MockSoundingUsecase) UpdateSounding(ctx context.Context, req usecase.UpdateSoundingRequest) (*usecase.UpdateSoundingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UpdateSoundingResponse), args.Error(1)
}

func (m *MockSoundingUsecase) DeleteSounding(ctx context.Context, req usecase.DeleteSoundingRequest) (*usecase.DeleteSoundingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteSoundingResponse), args.Error(1)
}

func (m *MockSoundingUsecase) ListSoundings(ctx context.Context, req usecase.ListSoundingsRequest) (*usecase.ListSoundingsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListSoundingsResponse), args.Error(1)
}

func (m *MockSoundingUsecase) Volume(ctx context.Context, req usecase.VolumeRequest) (*usecase.VolumeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VolumeResponse), args.Error(1)
}

func (m *MockSoundingUsecase) Tanks(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func setupSoundingTest(t *testing.T) (*gin.Engine, *SoundingHandler, *MockSoundingUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockSoundingUsecase)
	logger := zaptest.NewLogger(t)
	handler := NewSoundingHandler(mockUsecase, logger)

	r := gin.New()
	// Routes below run with a crew user already restored.
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, &domain.User{ID: 7, Username: "deckhand", Role: domain.RoleCrew})
	})
	return r, handler, mockUsecase
}

func TestCreateSoundingHTTP(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.POST("/api/soundings", handler.Create)

		mockUsecase.On("CreateSounding", mock.Anything, mock.MatchedBy(func(req usecase.CreateSoundingRequest) bool {
			return req.Tank == "Day Tank" && req.RecordedBy == 7
		})).Return(&usecase.CreateSoundingResponse{ID: 1, NetGallons: 150}, nil)

		body, _ := json.Marshal(CreateSoundingRequest{
			Tank:        "Day Tank",
			TakenAt:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			DepthInches: 12,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/soundings", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"net_gallons":150`)
	})

	t.Run("NoActiveHitch", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.POST("/api/soundings", handler.Create)

		mockUsecase.On("CreateSounding", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("hitch", "no active hitch; start a hitch before recording soundings"))

		body, _ := json.Marshal(CreateSoundingRequest{
			Tank:        "Day Tank",
			TakenAt:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			DepthInches: 12,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/soundings", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetSoundingHTTP(t *testing.T) {
	t.Run("InvalidID", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.GET("/api/soundings/:id", handler.Get)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/soundings/abc", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "GetSounding", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.GET("/api/soundings/:id", handler.Get)

		mockUsecase.On("GetSounding", mock.Anything, usecase.GetSoundingRequest{ID: 404}).
			Return(nil, pkgerrors.NewNotFoundError("sounding", "sounding not found: id=404"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/soundings/404", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListSoundingsHTTP(t *testing.T) {
	r, handler, mockUsecase := setupSoundingTest(t)
	r.GET("/api/soundings", handler.List)

	mockUsecase.On("ListSoundings", mock.Anything, usecase.ListSoundingsRequest{
		HitchID: 5, Tank: "Day", Page: 2, Limit: 10,
	}).Return(&usecase.ListSoundingsResponse{
		Soundings:  []usecase.Sounding{{ID: 1, Tank: "Day Tank"}},
		Pagination: usecase.NewPagination(11, 2, 10),
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/soundings?hitch_id=5&tank=Day&page=2&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ListSoundingsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Soundings, 1)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)
}

func TestVolumeHTTP(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.GET("/api/soundings/volume", handler.Volume)

		mockUsecase.On("Volume", mock.Anything, usecase.VolumeRequest{Tank: "Day Tank", DepthInches: 15}).
			Return(&usecase.VolumeResponse{Tank: "Day Tank", DepthInches: 15, NetGallons: 140}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/soundings/volume?tank=Day+Tank&depth=15", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"net_gallons":140`)
	})

	t.Run("MissingDepth", func(t *testing.T) {
		r, handler, mockUsecase := setupSoundingTest(t)
		r.GET("/api/soundings/volume", handler.Volume)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/soundings/volume?tank=Day+Tank", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "Volume", mock.Anything, mock.Anything)
	})
}

func TestTanksHTTP(t *testing.T) {
	r, handler, mockUsecase := setupSoundingTest(t)
	r.GET("/api/tanks", handler.Tanks)

	mockUsecase.On("Tanks", mock.Anything).Return([]string{"Day Tank", "Port Fuel"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tanks", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Port Fuel")
}
