package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"heartboard/internal/adapter/repo"
	"heartboard/internal/domain"
	"heartboard/internal/infra"
	"heartboard/internal/ranking"
)

// rebuild is the maintenance entry point: full leaderboard recompute for a
// scope and profile-total drift verification. Drift is reported, never
// repaired unless -repair is passed explicitly.
func main() {
	var (
		seasonFlag         int64
		lifetimeFlag       bool
		limitFlag          int
		verifyProfilesFlag bool
		repairFlag         bool
	)

	flag.Int64Var(&seasonFlag, "season", 0, "season ID whose leaderboard to rebuild (0 skips)")
	flag.BoolVar(&lifetimeFlag, "lifetime", false, "rebuild the lifetime leaderboard")
	flag.IntVar(&limitFlag, "limit", 0, "leaderboard size (0 uses LEADERBOARD_LIMIT)")
	flag.BoolVar(&verifyProfilesFlag, "verify-profiles", false, "verify profile totals against summed donation records")
	flag.BoolVar(&repairFlag, "repair", false, "overwrite drifted profile totals with the recomputed sum")
	flag.Parse()

	if seasonFlag == 0 && !lifetimeFlag && !verifyProfilesFlag {
		exitWithError(errors.New("nothing to do: pass -season, -lifetime and/or -verify-profiles"))
	}
	if repairFlag && !verifyProfilesFlag {
		exitWithError(errors.New("-repair requires -verify-profiles"))
	}

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "rebuild").Logger()

	loc, err := cfg.ReportLocation()
	if err != nil {
		exitWithError(err)
	}

	limit := limitFlag
	if limit <= 0 {
		limit = cfg.LeaderboardLimit
	}

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	donations := repo.NewDonationRepository(pool, loc)
	profiles := repo.NewProfileRepository(pool)
	leaderboards := repo.NewLeaderboardRepository(pool)

	rebuilder := &ranking.Rebuilder{Donations: donations, Leaderboards: leaderboards, Logger: logger}

	if seasonFlag != 0 {
		entries, err := rebuilder.RebuildSeason(ctx, seasonFlag, limit)
		if err != nil {
			exitWithError(fmt.Errorf("season %d rebuild: %w", seasonFlag, err))
		}
		fmt.Printf("season %d leaderboard rebuilt: %d entries\n", seasonFlag, entries)
	}

	if lifetimeFlag {
		entries, err := rebuilder.RebuildLifetime(ctx, limit)
		if err != nil {
			exitWithError(fmt.Errorf("lifetime rebuild: %w", err))
		}
		fmt.Printf("lifetime leaderboard rebuilt: %d entries\n", entries)
	}

	if verifyProfilesFlag {
		if err := verifyProfiles(ctx, profiles, repairFlag); err != nil {
			exitWithError(err)
		}
	}
}

// verifyProfiles sweeps every profile and compares the stored running total
// with the sum over its donation records.
func verifyProfiles(ctx context.Context, profiles *repo.ProfileRepositoryPG, repair bool) error {
	all, err := profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	drifted := 0
	for _, p := range all {
		stored, actual, err := profiles.RecomputeTotal(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("recompute %s: %w", p.Nickname, err)
		}
		if stored == actual {
			continue
		}
		drifted++
		fmt.Printf("drift: %s stored=%d actual=%d\n", p.Nickname, stored, actual)
		if repair {
			if err := profiles.SetTotal(ctx, p.ID, actual); err != nil {
				return fmt.Errorf("repair %s: %w", p.Nickname, err)
			}
			fmt.Printf("repaired: %s -> %d\n", p.Nickname, actual)
		}
	}

	if drifted == 0 {
		fmt.Printf("verified %d profiles, no drift\n", len(all))
		return nil
	}
	if !repair {
		return fmt.Errorf("%w: %d profiles affected (re-run with -repair to fix)", domain.ErrDriftDetected, drifted)
	}
	fmt.Printf("repaired %d drifted profiles\n", drifted)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
