package fuel

import "time"

// CreateTicketRequest carries a new fuel delivery record.
type CreateTicketRequest struct {
	TicketNumber    string    `validate:"required,max=50"`
	TicketDate      time.Time `validate:"required"`
	Supplier        string    `validate:"max=100"`
	Tank            string    `validate:"required,max=100"`
	GallonsReceived float64   `validate:"gt=0"`
	RecordedBy      int64     `validate:"required,gt=0"`
}

// CreateTicketResponse carries the new ticket's identifier.
type CreateTicketResponse struct {
	ID int64
}

// UpdateTicketRequest carries corrections to an existing ticket.
type UpdateTicketRequest struct {
	ID              int64     `validate:"required,gt=0"`
	TicketNumber    string    `validate:"required,max=50"`
	TicketDate      time.Time `validate:"required"`
	Supplier        string    `validate:"max=100"`
	Tank            string    `validate:"required,max=100"`
	GallonsReceived float64   `validate:"gt=0"`
}

// UpdateTicketResponse carries the updated ticket's identifier.
type UpdateTicketResponse struct {
	ID int64
}

// GetTicketRequest identifies a ticket to fetch.
type GetTicketRequest struct {
	ID int64
}

// DeleteTicketRequest identifies a ticket to delete.
type DeleteTicketRequest struct {
	ID int64
}

// DeleteTicketResponse carries the deleted ticket's identifier.
type DeleteTicketResponse struct {
	ID int64
}

// ListTicketsRequest filters and pages the fuel ticket history.
type ListTicketsRequest struct {
	HitchID int64
	Query   string
	Page    int64
	Limit   int64
}

// ListTicketsResponse carries one page of tickets.
type ListTicketsResponse struct {
	Tickets    []Ticket
	Pagination Pagination
}

// Ticket is the fuel ticket DTO for API responses.
type Ticket struct {
	ID              int64
	HitchID         int64
	TicketNumber    string
	TicketDate      time.Time
	Supplier        string
	Tank            string
	GallonsReceived float64
	RecordedBy      int64
}

// Pagination carries list paging metadata.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// NewPagination computes paging metadata for a list response.
func NewPagination(total, page, limit int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
