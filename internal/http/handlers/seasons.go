package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"heartboard/internal/domain"
	"heartboard/internal/sqlinline"
)

type seasonDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `json:"is_active"`
}

// SeasonsList serves every season, newest first.
func (a *App) SeasonsList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListSeasons)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load seasons")
		return
	}
	defer rows.Close()

	items := []seasonDTO{}
	for rows.Next() {
		var s seasonDTO
		var endDate sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &endDate, &s.IsActive); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read seasons")
			return
		}
		if endDate.Valid {
			s.EndDate = &endDate.Time
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read seasons")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ActiveSeason serves the single currently active season.
func (a *App) ActiveSeason(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectActiveSeason)

	var s seasonDTO
	var endDate sql.NullTime
	if err := row.Scan(&s.ID, &s.Name, &s.StartDate, &endDate, &s.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "no active season")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load active season")
		return
	}
	if endDate.Valid {
		s.EndDate = &endDate.Time
	}
	a.json(w, http.StatusOK, s)
}

// ActivateSeason flips the single active season to the given one. The
// repository clears every flag and sets the new one in one transaction.
func (a *App) ActivateSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(chi.URLParam(r, "seasonID"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid season id")
		return
	}

	if err := a.Seasons.SetActive(r.Context(), seasonID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "season not found")
			return
		}
		a.Logger.Error().Err(err).Int64("season_id", seasonID).Msg("season activation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to activate season")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"season_id": seasonID, "is_active": true})
}
