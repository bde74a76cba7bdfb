package fuel

import "time"

// Ticket is one fuel delivery record. TicketNumber is the supplier's paper
// ticket reference and must be unique.
type Ticket struct {
	ID              int64
	HitchID         int64
	TicketNumber    string
	TicketDate      time.Time
	Supplier        string
	Tank            string
	GallonsReceived float64
	RecordedBy      int64
	CreatedAt       time.Time
}
