package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"heartboard/internal/adapter/repo"
	"heartboard/internal/http/handlers"
	"heartboard/internal/http/httpapi"
	"heartboard/internal/infra"
	"heartboard/internal/ranking"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	loc, err := cfg.ReportLocation()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid report timezone")
	}

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	donations := repo.NewDonationRepository(dbpool, loc)
	profiles := repo.NewProfileRepository(dbpool)
	seasons := repo.NewSeasonRepository(dbpool)
	leaderboards := repo.NewLeaderboardRepository(dbpool)

	app := &handlers.App{
		SQL:              runner,
		Logger:           logger,
		VIPThreshold:     cfg.VIPRankThreshold,
		LeaderboardLimit: cfg.LeaderboardLimit,
		Rebuilder: &ranking.Rebuilder{
			Donations:    donations,
			Leaderboards: leaderboards,
			Logger:       logger,
		},
		Profiles: profiles,
		Seasons:  seasons,
	}

	router := httpapi.NewRouter(app, logger, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
