package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"heartboard/internal/domain"
)

// RebuildSeason recomputes one season's leaderboard from stored records.
// The rebuild is all-or-nothing; on failure the prior snapshot stands.
func (a *App) RebuildSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(chi.URLParam(r, "seasonID"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid season id")
		return
	}

	a.rebuildMu.Lock()
	defer a.rebuildMu.Unlock()

	entries, err := a.Rebuilder.RebuildSeason(r.Context(), seasonID, a.LeaderboardLimit)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLeaderboard) {
			a.error(w, http.StatusConflict, "empty_leaderboard", "season has no donation records")
			return
		}
		a.Logger.Error().Err(err).Int64("season_id", seasonID).Msg("season rebuild failed")
		a.error(w, http.StatusInternalServerError, "internal", "rebuild failed, prior leaderboard preserved")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"season_id": seasonID, "entries": entries})
}

// RebuildLifetime recomputes the lifetime leaderboard from all records.
func (a *App) RebuildLifetime(w http.ResponseWriter, r *http.Request) {
	a.rebuildMu.Lock()
	defer a.rebuildMu.Unlock()

	entries, err := a.Rebuilder.RebuildLifetime(r.Context(), a.LeaderboardLimit)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLeaderboard) {
			a.error(w, http.StatusConflict, "empty_leaderboard", "no donation records")
			return
		}
		a.Logger.Error().Err(err).Msg("lifetime rebuild failed")
		a.error(w, http.StatusInternalServerError, "internal", "rebuild failed, prior leaderboard preserved")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"entries": entries})
}

// RecomputeProfile verifies a profile's running total against the summed
// records. Drift is reported, not silently corrected; pass repair=true to
// overwrite the stored total after reviewing the report.
func (a *App) RecomputeProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	if profileID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "profile id required")
		return
	}

	stored, actual, err := a.Profiles.RecomputeTotal(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to recompute total")
		return
	}

	drifted := stored != actual
	repaired := false
	if drifted && r.URL.Query().Get("repair") == "true" {
		if err := a.Profiles.SetTotal(r.Context(), profileID, actual); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to repair total")
			return
		}
		repaired = true
	}
	if drifted && !repaired {
		a.Logger.Warn().Str("profile_id", profileID).Int64("stored", stored).Int64("actual", actual).Msg("profile total drift detected")
	}

	a.json(w, http.StatusOK, map[string]any{
		"profile_id": profileID,
		"stored":     stored,
		"actual":     actual,
		"drifted":    drifted,
		"repaired":   repaired,
	})
}
