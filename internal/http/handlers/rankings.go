package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"heartboard/internal/sqlinline"
)

type rankingEntryDTO struct {
	ID                int64     `json:"id"`
	SeasonID          int64     `json:"season_id,omitempty"`
	Rank              int       `json:"rank"`
	DonorName         string    `json:"donor_name"`
	TotalAmount       int64     `json:"total_amount"`
	ContributionCount int       `json:"donation_count"`
	IsPermanentVip    bool      `json:"is_permanent_vip,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SeasonRankings serves one season's leaderboard ordered by rank.
func (a *App) SeasonRankings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(chi.URLParam(r, "seasonID"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid season id")
		return
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListSeasonRankings, seasonID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load season rankings")
		return
	}
	defer rows.Close()

	items := []rankingEntryDTO{}
	for rows.Next() {
		var e rankingEntryDTO
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Rank, &e.DonorName, &e.TotalAmount, &e.ContributionCount, &e.UpdatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read season rankings")
			return
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read season rankings")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// LifetimeRankings serves the all-time leaderboard ordered by rank.
func (a *App) LifetimeRankings(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListLifetimeRankings)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load lifetime rankings")
		return
	}
	defer rows.Close()

	items := []rankingEntryDTO{}
	for rows.Next() {
		var e rankingEntryDTO
		if err := rows.Scan(&e.ID, &e.Rank, &e.DonorName, &e.TotalAmount, &e.ContributionCount, &e.IsPermanentVip, &e.UpdatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read lifetime rankings")
			return
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read lifetime rankings")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
