package domain

import "time"

// DonationInput is a single normalized spreadsheet row before persistence.
// Amount is always positive; non-positive hearts (penalties, refunds) are
// excluded during normalization and never reach this type.
type DonationInput struct {
	DonorName  string
	PlatformID string
	Amount     int64
	Message    string
	SeasonID   int64
	OccurredAt time.Time
}

// DonationRecord is the authoritative stored donation event. Leaderboards
// are derived caches rebuilt from these records.
type DonationRecord struct {
	ID             int64
	DonorProfileID *string
	DonorName      string
	Amount         int64
	Message        string
	SeasonID       int64
	CreatedAt      time.Time
}

// DonorTotal is an aggregated per-donor sum produced by the cross-file
// aggregator, ordered descending by TotalAmount with first-seen tie-break.
type DonorTotal struct {
	DonorName         string
	TotalAmount       int64
	ContributionCount int
}
