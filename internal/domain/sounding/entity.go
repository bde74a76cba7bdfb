package sounding

import "time"

// Sounding is one tank level measurement. NetGallons is derived from the
// tank's calibration table when the caller does not supply it.
type Sounding struct {
	ID          int64
	HitchID     int64
	Tank        string
	TakenAt     time.Time
	DepthInches float64
	NetGallons  float64
	RecordedBy  int64
	CreatedAt   time.Time
}
