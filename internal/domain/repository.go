package domain

import (
	"context"
	"time"
)

// DonationRepository persists donation records. The *WithDelta writes commit
// the record mutation and the linked profile's total adjustment in one
// transaction so the running total never observably disagrees with the
// record set.
type DonationRepository interface {
	FindSameDay(ctx context.Context, donorName string, seasonID int64, day time.Time) (*DonationRecord, error)
	InsertWithDelta(ctx context.Context, record *DonationRecord) error
	OverwriteWithDelta(ctx context.Context, id int64, amount int64, message string, occurredAt time.Time, profileID *string, delta int64) error
	AccumulateWithDelta(ctx context.Context, id int64, amount int64, message string, profileID *string, delta int64) error
	ListBySeason(ctx context.Context, seasonID int64) ([]DonationRecord, error)
	ListAll(ctx context.Context) ([]DonationRecord, error)
}

// ProfileRepository handles donor profiles and their lifetime totals.
type ProfileRepository interface {
	GetByNickname(ctx context.Context, nickname string) (*Profile, error)
	GetByPlatformID(ctx context.Context, platformID string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	RecomputeTotal(ctx context.Context, profileID string) (stored int64, actual int64, err error)
	SetTotal(ctx context.Context, profileID string, total int64) error
}

// SeasonRepository resolves and manages ranking seasons.
type SeasonRepository interface {
	GetByID(ctx context.Context, id int64) (*Season, error)
	GetActive(ctx context.Context) (*Season, error)
	SetActive(ctx context.Context, id int64) error
}

// LeaderboardRepository replaces the two ranking tables. Replace operations
// are all-or-nothing: a reader never sees a scope with the old rows deleted
// and the new rows missing. Reads go through the API's SQL layer.
type LeaderboardRepository interface {
	ReplaceSeason(ctx context.Context, seasonID int64, entries []LeaderboardEntry) error
	ReplaceLifetime(ctx context.Context, entries []LeaderboardEntry) error
}
