package domain

import "time"

// LeaderboardEntry is one row of a rank-contiguous materialized leaderboard.
// Within a scope ranks are exactly 1..N after every successful snapshot.
// IsPermanentVip is a manually curated lifetime-only flag; snapshot writes
// carry it forward by donor name, they never compute it.
type LeaderboardEntry struct {
	ID                int64
	SeasonID          int64
	Rank              int
	DonorName         string
	TotalAmount       int64
	ContributionCount int
	IsPermanentVip    bool
	UpdatedAt         time.Time
}
