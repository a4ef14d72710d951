package ranking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"heartboard/internal/domain"
)

// Rebuilder recomputes a leaderboard scope from the authoritative donation
// records and replaces the scope's snapshot. A rebuild either fully
// succeeds or leaves the prior snapshot untouched.
type Rebuilder struct {
	Donations    domain.DonationRepository
	Leaderboards domain.LeaderboardRepository
	Logger       zerolog.Logger
}

// RebuildSeason replaces the season leaderboard. Returns the number of
// entries written.
func (r *Rebuilder) RebuildSeason(ctx context.Context, seasonID int64, limit int) (int, error) {
	records, err := r.Donations.ListBySeason(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("list season donations: %w", err)
	}
	totals := AggregateRecords(records)
	if len(totals) == 0 {
		return 0, domain.ErrEmptyLeaderboard
	}
	entries := BuildEntries(seasonID, totals, limit)
	if err := r.Leaderboards.ReplaceSeason(ctx, seasonID, entries); err != nil {
		return 0, fmt.Errorf("replace season leaderboard: %w", err)
	}
	r.Logger.Info().Int64("season_id", seasonID).Int("entries", len(entries)).Msg("season leaderboard rebuilt")
	return len(entries), nil
}

// RebuildLifetime replaces the lifetime leaderboard over every stored
// record. Manually curated permanent-VIP flags survive the replacement;
// the repository carries them forward by donor name.
func (r *Rebuilder) RebuildLifetime(ctx context.Context, limit int) (int, error) {
	records, err := r.Donations.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list donations: %w", err)
	}
	totals := AggregateRecords(records)
	if len(totals) == 0 {
		return 0, domain.ErrEmptyLeaderboard
	}
	entries := BuildEntries(0, totals, limit)
	if err := r.Leaderboards.ReplaceLifetime(ctx, entries); err != nil {
		return 0, fmt.Errorf("replace lifetime leaderboard: %w", err)
	}
	r.Logger.Info().Int("entries", len(entries)).Msg("lifetime leaderboard rebuilt")
	return len(entries), nil
}
