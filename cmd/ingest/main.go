package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"heartboard/internal/adapter/repo"
	"heartboard/internal/domain"
	"heartboard/internal/infra"
	"heartboard/internal/ingest"
	"heartboard/internal/ranking"
)

func main() {
	var (
		seasonFlag         int64
		filesFlag          string
		policyFlag         string
		dryRunFlag         bool
		noLifetimeFlag     bool
		createProfilesFlag bool
		limitFlag          int
	)

	flag.Int64Var(&seasonFlag, "season", 0, "season ID to ingest into (0 resolves the active season)")
	flag.StringVar(&filesFlag, "files", "", "comma-separated CSV file paths (positional args also accepted)")
	flag.StringVar(&policyFlag, "policy", "skip", "duplicate handling: skip, overwrite or accumulate")
	flag.BoolVar(&dryRunFlag, "dry-run", false, "parse and report without committing")
	flag.BoolVar(&noLifetimeFlag, "no-lifetime", false, "skip the lifetime leaderboard refresh")
	flag.BoolVar(&createProfilesFlag, "create-profiles", true, "auto-create profiles for unknown donors")
	flag.IntVar(&limitFlag, "limit", 0, "leaderboard size (0 uses LEADERBOARD_LIMIT)")
	flag.Parse()

	paths := splitPaths(filesFlag)
	paths = append(paths, flag.Args()...)
	if len(paths) == 0 {
		exitWithError(errors.New("at least one input file is required (-files or positional args)"))
	}

	policy, err := ingest.ParsePolicy(policyFlag)
	if err != nil {
		exitWithError(err)
	}

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "ingest").Logger()

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
	seasons := repo.NewSeasonRepository(pool)
	leaderboards := repo.NewLeaderboardRepository(pool)

	seasonID := seasonFlag
	if seasonID == 0 {
		active, err := seasons.GetActive(ctx)
		if err != nil {
			exitWithError(fmt.Errorf("resolve active season: %w", err))
		}
		seasonID = active.ID
		logger.Info().Int64("season_id", seasonID).Str("season", active.Name).Msg("using active season")
	} else if _, err := seasons.GetByID(ctx, seasonID); err != nil {
		exitWithError(fmt.Errorf("season %d: %w", seasonID, err))
	}

	if policy == ingest.PolicyAccumulate {
		fmt.Fprintln(os.Stderr, "warning: accumulate is not idempotent; replaying the same file double-counts")
	}

	runner := &ingest.Runner{
		Normalizer:     ingest.NewNormalizer(loc, cfg.HouseAccounts),
		Donations:      donations,
		Profiles:       profiles,
		Logger:         logger,
		Policy:         policy,
		DryRun:         dryRunFlag,
		CreateProfiles: createProfilesFlag,
		MaxErrors:      cfg.IngestMaxErrors,
	}

	report, inputs, err := runner.IngestFiles(ctx, seasonID, paths)
	if err != nil {
		exitWithError(err)
	}

	printer := message.NewPrinter(language.English)
	fmt.Printf("ingestion report: %s\n", report.Summary())

	totals := ranking.Aggregate(inputs)
	if len(totals) > 0 {
		fmt.Printf("\ntop donors in this batch:\n%s", ingest.FormatTopDonors(totals, 10))
	}

	if dryRunFlag {
		fmt.Println("\ndry-run: nothing was committed; re-run without -dry-run to apply")
		return
	}

	rebuilder := &ranking.Rebuilder{Donations: donations, Leaderboards: leaderboards, Logger: logger}

	seasonEntries, err := rebuilder.RebuildSeason(ctx, seasonID, limit)
	if err != nil && !errors.Is(err, domain.ErrEmptyLeaderboard) {
		exitWithError(fmt.Errorf("season leaderboard rebuild: %w", err))
	}
	fmt.Printf("season %d leaderboard: %s entries\n", seasonID, printer.Sprintf("%d", seasonEntries))

	if !noLifetimeFlag {
		lifetimeEntries, err := rebuilder.RebuildLifetime(ctx, limit)
		if err != nil && !errors.Is(err, domain.ErrEmptyLeaderboard) {
			exitWithError(fmt.Errorf("lifetime leaderboard rebuild: %w", err))
		}
		fmt.Printf("lifetime leaderboard: %s entries\n", printer.Sprintf("%d", lifetimeEntries))
	}
}

func splitPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
