package domain

import "time"

// Profile is the donor-facing account. TotalDonation is maintained
// incrementally by the profile total synchronizer and must equal the sum of
// the profile's donation records whenever no delta is in flight.
type Profile struct {
	ID            string
	Nickname      string
	PlatformID    *string
	TotalDonation int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
