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
	usecase "orb-service/internal/usecase/hitch"
	pkgerrors "orb-service/pkg/errors"
)

// MockHitchUsecase is a mock implementation of hitch.Usecase
type MockHitchUsecase struct {
	mock.Mock
}

func (m *MockHitchUsecase) StartHitch(ctx context.Context, req usecase.StartHitchRequest) (*usecase.StartHitchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.StartHitchResponse), args.Error(1)
}

func (m *MockHitchUsecase) GetHitch(ctx context.Context, req usecase.GetHitchRequest) (*usecase.Hitch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Hitch), args.Error(1)
}

func (m *MockHitchUsecase) ActiveHitch(ctx context.Context) (*usecase.Hitch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Hitch), args.Error(1)
}

func (m *MockHitchUsecase) ListHitches(ctx context.Context, req usecase.ListHitchesRequest) (*usecase.ListHitchesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListHitchesResponse), args.Error(1)
}

func setupHitchTest(t *testing.T) (*gin.Engine, *HitchHandler, *MockHitchUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockHitchUsecase)
	logger := zaptest.NewLogger(t)
	handler := NewHitchHandler(mockUsecase, logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, &domain.User{ID: 7, Username: "deckhand", Role: domain.RoleCrew})
	})
	return r, handler, mockUsecase
}

func TestStartHitchHTTP(t *testing.T) {
	t.Run("ClosesActive", func(t *testing.T) {
		r, handler, mockUsecase := setupHitchTest(t)
		r.POST("/api/hitches", handler.Start)

		start := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
		mockUsecase.On("StartHitch", mock.Anything, mock.MatchedBy(func(req usecase.StartHitchRequest) bool {
			return req.StartedAt.Equal(start) && req.CreatedBy == 7
		})).Return(&usecase.StartHitchResponse{ID: 5, ClosedID: 4}, nil)

		body, _ := json.Marshal(StartHitchRequest{StartedAt: start, Notes: "spring crew"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/hitches", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"closed_id":4`)
	})

	t.Run("StartBeforeActive", func(t *testing.T) {
		r, handler, mockUsecase := setupHitchTest(t)
		r.POST("/api/hitches", handler.Start)

		mockUsecase.On("StartHitch", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("started_at", "new hitch must start after the active hitch began"))

		body, _ := json.Marshal(StartHitchRequest{StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/hitches", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActiveHitchHTTP(t *testing.T) {
	t.Run("NoneOpenIsNullNot404", func(t *testing.T) {
		r, handler, mockUsecase := setupHitchTest(t)
		r.GET("/api/hitches/active", handler.Active)

		mockUsecase.On("ActiveHitch", mock.Anything).Return(nil, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/hitches/active", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"hitch":null}`, w.Body.String())
	})

	t.Run("Open", func(t *testing.T) {
		r, handler, mockUsecase := setupHitchTest(t)
		r.GET("/api/hitches/active", handler.Active)

		mockUsecase.On("ActiveHitch", mock.Anything).Return(&usecase.Hitch{
			ID:        4,
			StartedAt: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
			Active:    true,
			CreatedBy: 7,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/hitches/active", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"active":true`)
	})
}
