package repo

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartboard/internal/domain"
)

// LeaderboardRepositoryPG implements domain.LeaderboardRepository over the
// two ranking tables. Snapshot replacement is delete-then-insert inside one
// transaction: rank values are positional, so a partial update could expose
// duplicate or missing ranks to a concurrent reader.
type LeaderboardRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new leaderboard repo.
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepositoryPG {
	return &LeaderboardRepositoryPG{pool: pool}
}

// ReplaceSeason atomically swaps one season's leaderboard for the entries.
func (r *LeaderboardRepositoryPG) ReplaceSeason(ctx context.Context, seasonID int64, entries []domain.LeaderboardEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM season_rankings WHERE season_id = $1;`, seasonID); err != nil {
			return err
		}

		now := time.Now()
		rows := make([][]any, len(entries))
		for i, e := range entries {
			rows[i] = []any{seasonID, e.Rank, e.DonorName, e.TotalAmount, e.ContributionCount, now}
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"season_rankings"},
			[]string{"season_id", "rank", "donor_name", "total_amount", "donation_count", "updated_at"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
}

// ReplaceLifetime atomically swaps the lifetime leaderboard. The manually
// curated permanent-VIP flags are read from the outgoing rows inside the
// same transaction and carried forward by donor name; a name not previously
// on the board defaults to false.
func (r *LeaderboardRepositoryPG) ReplaceLifetime(ctx context.Context, entries []domain.LeaderboardEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		vipRows, err := tx.Query(ctx, `SELECT donor_name FROM lifetime_rankings WHERE is_permanent_vip;`)
		if err != nil {
			return err
		}
		permanentVips := make(map[string]struct{})
		for vipRows.Next() {
			var name string
			if err := vipRows.Scan(&name); err != nil {
				vipRows.Close()
				return err
			}
			permanentVips[strings.ToLower(name)] = struct{}{}
		}
		vipRows.Close()
		if err := vipRows.Err(); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM lifetime_rankings;`); err != nil {
			return err
		}

		now := time.Now()
		rows := make([][]any, len(entries))
		for i, e := range entries {
			_, vip := permanentVips[strings.ToLower(e.DonorName)]
			rows[i] = []any{e.Rank, e.DonorName, e.TotalAmount, e.ContributionCount, vip, now}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"lifetime_rankings"},
			[]string{"rank", "donor_name", "total_amount", "donation_count", "is_permanent_vip", "updated_at"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
}

