package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orb-service/internal/adapter/gin/middleware"
	"orb-service/internal/usecase/fuel"
)

// FuelHandler handles HTTP requests for fuel ticket operations.
type FuelHandler struct {
	uc  fuel.Usecase
	log *zap.Logger
}

// NewFuelHandler creates a new FuelHandler instance.
func NewFuelHandler(uc fuel.Usecase, log *zap.Logger) *FuelHandler {
	return &FuelHandler{uc: uc, log: log}
}

// CreateTicketRequest represents the HTTP request body for recording a fuel delivery
type CreateTicketRequest struct {
	TicketNumber    string    `json:"ticket_number" binding:"required,max=50"`
	TicketDate      time.Time `json:"ticket_date" binding:"required"`
	Supplier        string    `json:"supplier" binding:"omitempty,max=100"`
	Tank            string    `json:"tank" binding:"required,max=100"`
	GallonsReceived float64   `json:"gallons_received" binding:"required,gt=0"`
}

// UpdateTicketRequest represents the HTTP request body for correcting a fuel ticket
type UpdateTicketRequest struct {
	TicketNumber    string    `json:"ticket_number" binding:"required,max=50"`
	TicketDate      time.Time `json:"ticket_date" binding:"required"`
	Supplier        string    `json:"supplier" binding:"omitempty,max=100"`
	Tank            string    `json:"tank" binding:"required,max=100"`
	GallonsReceived float64   `json:"gallons_received" binding:"required,gt=0"`
}

// TicketResponse represents the HTTP response for fuel ticket data
type TicketResponse struct {
	ID              int64     `json:"id"`
	HitchID         int64     `json:"hitch_id"`
	TicketNumber    string    `json:"ticket_number"`
	TicketDate      time.Time `json:"ticket_date"`
	Supplier        string    `json:"supplier"`
	Tank            string    `json:"tank"`
	GallonsReceived float64   `json:"gallons_received"`
	RecordedBy      int64     `json:"recorded_by"`
}

// ListTicketsResponse represents the HTTP response for listing fuel tickets
type ListTicketsResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	Pagination Pagination       `json:"pagination"`
}

// Create handles POST /api/fuel-tickets
func (h *FuelHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create fuel ticket request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	u := middleware.CurrentUser(c)

	resp, err := h.uc.CreateTicket(c.Request.Context(), fuel.CreateTicketRequest{
		TicketNumber:    req.TicketNumber,
		TicketDate:      req.TicketDate,
		Supplier:        req.Supplier,
		Tank:            req.Tank,
		GallonsReceived: req.GallonsReceived,
		RecordedBy:      u.ID,
	})
	if err != nil {
		h.log.Error("create fuel ticket failed", zap.String("ticket_number", req.TicketNumber), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": resp.ID})
}

// Get handles GET /api/fuel-tickets/:id
func (h *FuelHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Ticket ID must be a valid number"})
		return
	}

	resp, err := h.uc.GetTicket(c.Request.Context(), fuel.GetTicketRequest{ID: id})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketResponse(resp))
}

// Update handles PUT /api/fuel-tickets/:id
func (h *FuelHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Ticket ID must be a valid number"})
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update fuel ticket request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	resp, err := h.uc.UpdateTicket(c.Request.Context(), fuel.UpdateTicketRequest{
		ID:              id,
		TicketNumber:    req.TicketNumber,
		TicketDate:      req.TicketDate,
		Supplier:        req.Supplier,
		Tank:            req.Tank,
		GallonsReceived: req.GallonsReceived,
	})
	if err != nil {
		h.log.Error("update fuel ticket failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// Delete handles DELETE /api/fuel-tickets/:id
func (h *FuelHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Ticket ID must be a valid number"})
		return
	}

	resp, err := h.uc.DeleteTicket(c.Request.Context(), fuel.DeleteTicketRequest{ID: id})
	if err != nil {
		h.log.Error("delete fuel ticket failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// List handles GET /api/fuel-tickets
func (h *FuelHandler) List(c *gin.Context) {
	hitchID, _ := strconv.ParseInt(c.DefaultQuery("hitch_id", "0"), 10, 64)
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	resp, err := h.uc.ListTickets(c.Request.Context(), fuel.ListTicketsRequest{
		HitchID: hitchID,
		Query:   c.DefaultQuery("q", ""),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		h.log.Error("list fuel tickets failed", zap.Error(err))
		handleError(c, err)
		return
	}

	items := make([]TicketResponse, len(resp.Tickets))
	for i := range resp.Tickets {
		items[i] = *toTicketResponse(&resp.Tickets[i])
	}

	c.JSON(http.StatusOK, ListTicketsResponse{
		Tickets: items,
		Pagination: Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		},
	})
}

func toTicketResponse(t *fuel.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:              t.ID,
		HitchID:         t.HitchID,
		TicketNumber:    t.TicketNumber,
		TicketDate:      t.TicketDate,
		Supplier:        t.Supplier,
		Tank:            t.Tank,
		GallonsReceived: t.GallonsReceived,
		RecordedBy:      t.RecordedBy,
	}
}
