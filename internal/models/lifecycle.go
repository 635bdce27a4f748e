package models

import "time"

// LifeStatus classifies an asset's proximity to its end-of-life date. It is
// recomputed on every read and never persisted.
type LifeStatus int

const (
	StatusNormal LifeStatus = iota
	StatusYellow
	StatusRed
	StatusGrey
)

// Assets are considered obsolete three calendar years after purchase.
const lifetimeYears = 3

const (
	redWindow    = 90 * 24 * time.Hour
	yellowWindow = 180 * 24 * time.Hour
)

func (s LifeStatus) String() string {
	switch s {
	case StatusYellow:
		return "Yellow"
	case StatusRed:
		return "Red"
	case StatusGrey:
		return "Grey"
	default:
		return "Normal"
	}
}

// Label returns the user-facing description of the status.
func (s LifeStatus) Label() string {
	switch s {
	case StatusYellow:
		return "Expiring"
	case StatusRed:
		return "Near End"
	case StatusGrey:
		return "Expired"
	default:
		return "Active"
	}
}

// MarshalText renders the status by name in JSON output.
func (s LifeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndOfLife returns the date an asset purchased on purchase becomes obsolete:
// exactly three calendar years later, not a day-count approximation.
func EndOfLife(purchase time.Time) time.Time {
	return purchase.AddDate(lifetimeYears, 0, 0)
}

// StatusAt classifies an asset purchased on purchase as observed at now.
// First match wins: past end of life is Grey, 90 days or fewer remaining is
// Red, 180 days or fewer is Yellow, anything else is Normal.
func StatusAt(purchase, now time.Time) LifeStatus {
	eol := EndOfLife(purchase)
	remaining := eol.Sub(now)
	switch {
	case now.After(eol):
		return StatusGrey
	case remaining <= redWindow:
		return StatusRed
	case remaining <= yellowWindow:
		return StatusYellow
	default:
		return StatusNormal
	}
}

// NearEndOfLife reports whether 90 days or fewer remain before end of life.
// The remaining time may be negative, so expired assets satisfy this too.
func NearEndOfLife(purchase, now time.Time) bool {
	return EndOfLife(purchase).Sub(now) <= redWindow
}
