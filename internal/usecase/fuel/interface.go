package fuel

import "context"

// Usecase defines the interface for fuel ticket operations.
type Usecase interface {
	CreateTicket(ctx context.Context, in CreateTicketRequest) (*CreateTicketResponse, error)
	GetTicket(ctx context.Context, in GetTicketRequest) (*Ticket, error)
	UpdateTicket(ctx context.Context, in UpdateTicketRequest) (*UpdateTicketResponse, error)
	DeleteTicket(ctx context.Context, in DeleteTicketRequest) (*DeleteTicketResponse, error)
	ListTickets(ctx context.Context, in ListTicketsRequest) (*ListTicketsResponse, error)
}
