package hitch

import "time"

// Hitch represents one crew rotation aboard the vessel. At most one hitch is
// active (EndedAt nil); starting a new hitch closes the active one.
type Hitch struct {
	ID        int64
	StartedAt time.Time
	EndedAt   *time.Time
	Notes     string
	CreatedBy int64
	CreatedAt time.Time
}

// Active reports whether the hitch is still open.
func (h *Hitch) Active() bool {
	return h.EndedAt == nil
}
