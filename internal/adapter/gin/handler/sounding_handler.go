package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orb-service/internal/adapter/gin/middleware"
	"orb-service/internal/usecase/sounding"
)

// SoundingHandler handles HTTP requests for sounding operations.
type SoundingHandler struct {
	uc  sounding.Usecase
	log *zap.Logger
}

// NewSoundingHandler creates a new SoundingHandler instance.
func NewSoundingHandler(uc sounding.Usecase, log *zap.Logger) *SoundingHandler {
	return &SoundingHandler{uc: uc, log: log}
}

// CreateSoundingRequest represents the HTTP request body for recording a sounding
type CreateSoundingRequest struct {
	Tank        string    `json:"tank" binding:"required,max=100"`
	TakenAt     time.Time `json:"taken_at" binding:"required"`
	DepthInches float64   `json:"depth_inches" binding:"gte=0"`
	NetGallons  float64   `json:"net_gallons" binding:"omitempty,gte=0"`
}

// UpdateSoundingRequest represents the HTTP request body for correcting a sounding
type UpdateSoundingRequest struct {
	Tank        string    `json:"tank" binding:"required,max=100"`
	TakenAt     time.Time `json:"taken_at" binding:"required"`
	DepthInches float64   `json:"depth_inches" binding:"gte=0"`
	NetGallons  float64   `json:"net_gallons" binding:"omitempty,gte=0"`
}

// SoundingResponse represents the HTTP response for sounding data
type SoundingResponse struct {
	ID          int64     `json:"id"`
	HitchID     int64     `json:"hitch_id"`
	Tank        string    `json:"tank"`
	TakenAt     time.Time `json:"taken_at"`
	DepthInches float64   `json:"depth_inches"`
	NetGallons  float64   `json:"net_gallons"`
	RecordedBy  int64     `json:"recorded_by"`
}

// ListSoundingsResponse represents the HTTP response for listing soundings
type ListSoundingsResponse struct {
	Soundings  []SoundingResponse `json:"soundings"`
	Pagination Pagination         `json:"pagination"`
}

// Create handles POST /api/soundings
func (h *SoundingHandler) Create(c *gin.Context) {
	var req CreateSoundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create sounding request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	u := middleware.CurrentUser(c)

	resp, err := h.uc.CreateSounding(c.Request.Context(), sounding.CreateSoundingRequest{
		Tank:        req.Tank,
		TakenAt:     req.TakenAt,
		DepthInches: req.DepthInches,
		NetGallons:  req.NetGallons,
		RecordedBy:  u.ID,
	})
	if err != nil {
		h.log.Error("create sounding failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": resp.ID, "net_gallons": resp.NetGallons})
}

// Get handles GET /api/soundings/:id
func (h *SoundingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Sounding ID must be a valid number"})
		return
	}

	resp, err := h.uc.GetSounding(c.Request.Context(), sounding.GetSoundingRequest{ID: id})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSoundingResponse(resp))
}

// Update handles PUT /api/soundings/:id
func (h *SoundingHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Sounding ID must be a valid number"})
		return
	}

	var req UpdateSoundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update sounding request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	resp, err := h.uc.UpdateSounding(c.Request.Context(), sounding.UpdateSoundingRequest{
		ID:          id,
		Tank:        req.Tank,
		TakenAt:     req.TakenAt,
		DepthInches: req.DepthInches,
		NetGallons:  req.NetGallons,
	})
	if err != nil {
		h.log.Error("update sounding failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// Delete handles DELETE /api/soundings/:id
func (h *SoundingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Sounding ID must be a valid number"})
		return
	}

	resp, err := h.uc.DeleteSounding(c.Request.Context(), sounding.DeleteSoundingRequest{ID: id})
	if err != nil {
		h.log.Error("delete sounding failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// List handles GET /api/soundings
func (h *SoundingHandler) List(c *gin.Context) {
	hitchID, _ := strconv.ParseInt(c.DefaultQuery("hitch_id", "0"), 10, 64)
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	resp, err := h.uc.ListSoundings(c.Request.Context(), sounding.ListSoundingsRequest{
		HitchID: hitchID,
		Tank:    c.DefaultQuery("tank", ""),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		h.log.Error("list soundings failed", zap.Error(err))
		handleError(c, err)
		return
	}

	items := make([]SoundingResponse, len(resp.Soundings))
	for i := range resp.Soundings {
		items[i] = *toSoundingResponse(&resp.Soundings[i])
	}

	c.JSON(http.StatusOK, ListSoundingsResponse{
		Soundings: items,
		Pagination: Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		},
	})
}

// Volume handles GET /api/soundings/volume?tank=...&depth=...
func (h *SoundingHandler) Volume(c *gin.Context) {
	depth, err := strconv.ParseFloat(c.DefaultQuery("depth", ""), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_depth", Message: "depth must be a valid number"})
		return
	}

	resp, err := h.uc.Volume(c.Request.Context(), sounding.VolumeRequest{
		Tank:        c.Query("tank"),
		DepthInches: depth,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tank":         resp.Tank,
		"depth_inches": resp.DepthInches,
		"net_gallons":  resp.NetGallons,
	})
}

// Tanks handles GET /api/tanks
func (h *SoundingHandler) Tanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tanks": h.uc.Tanks(c.Request.Context())})
}

func toSoundingResponse(s *sounding.Sounding) *SoundingResponse {
	return &SoundingResponse{
		ID:          s.ID,
		HitchID:     s.HitchID,
		Tank:        s.Tank,
		TakenAt:     s.TakenAt,
		DepthInches: s.DepthInches,
		NetGallons:  s.NetGallons,
		RecordedBy:  s.RecordedBy,
	}
}
