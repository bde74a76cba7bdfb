package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orb-service/internal/adapter/gin/middleware"
	"orb-service/internal/usecase/hitch"
)

// HitchHandler handles HTTP requests for hitch operations.
type HitchHandler struct {
	uc  hitch.Usecase
	log *zap.Logger
}

// NewHitchHandler creates a new HitchHandler instance.
func NewHitchHandler(uc hitch.Usecase, log *zap.Logger) *HitchHandler {
	return &HitchHandler{uc: uc, log: log}
}

// StartHitchRequest represents the HTTP request body for starting a hitch
type StartHitchRequest struct {
	StartedAt time.Time `json:"started_at" binding:"required"`
	Notes     string    `json:"notes" binding:"omitempty,max=500"`
}

// HitchResponse represents the HTTP response for hitch data
type HitchResponse struct {
	ID        int64      `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Notes     string     `json:"notes"`
	Active    bool       `json:"active"`
	CreatedBy int64      `json:"created_by"`
}

// ListHitchesResponse represents the HTTP response for listing hitches
type ListHitchesResponse struct {
	Hitches    []HitchResponse `json:"hitches"`
	Pagination Pagination      `json:"pagination"`
}

// Start handles POST /api/hitches
func (h *HitchHandler) Start(c *gin.Context) {
	var req StartHitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid start hitch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	u := middleware.CurrentUser(c)

	resp, err := h.uc.StartHitch(c.Request.Context(), hitch.StartHitchRequest{
		StartedAt: req.StartedAt,
		Notes:     req.Notes,
		CreatedBy: u.ID,
	})
	if err != nil {
		h.log.Error("start hitch failed", zap.Error(err))
		handleError(c, err)
		return
	}

	out := gin.H{"id": resp.ID}
	if resp.ClosedID != 0 {
		out["closed_id"] = resp.ClosedID
	}
	c.JSON(http.StatusCreated, out)
}

// Get handles GET /api/hitches/:id
func (h *HitchHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Hitch ID must be a valid number"})
		return
	}

	resp, err := h.uc.GetHitch(c.Request.Context(), hitch.GetHitchRequest{ID: id})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHitchResponse(resp))
}

// Active handles GET /api/hitches/active. Responds with a null hitch when
// no hitch is open rather than a 404.
func (h *HitchHandler) Active(c *gin.Context) {
	resp, err := h.uc.ActiveHitch(c.Request.Context())
	if err != nil {
		h.log.Error("active hitch lookup failed", zap.Error(err))
		handleError(c, err)
		return
	}

	if resp == nil {
		c.JSON(http.StatusOK, gin.H{"hitch": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hitch": toHitchResponse(resp)})
}

// List handles GET /api/hitches
func (h *HitchHandler) List(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	resp, err := h.uc.ListHitches(c.Request.Context(), hitch.ListHitchesRequest{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.log.Error("list hitches failed", zap.Error(err))
		handleError(c, err)
		return
	}

	items := make([]HitchResponse, len(resp.Hitches))
	for i := range resp.Hitches {
		items[i] = *toHitchResponse(&resp.Hitches[i])
	}

	c.JSON(http.StatusOK, ListHitchesResponse{
		Hitches: items,
		Pagination: Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		},
	})
}

func toHitchResponse(in *hitch.Hitch) *HitchResponse {
	return &HitchResponse{
		ID:        in.ID,
		StartedAt: in.StartedAt,
		EndedAt:   in.EndedAt,
		Notes:     in.Notes,
		Active:    in.Active,
		CreatedBy: in.CreatedBy,
	}
}
