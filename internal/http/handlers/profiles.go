package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"heartboard/internal/sqlinline"
)

// ProfileTotal serves a donor profile's lifetime donation total by
// nickname, as displayed on profile pages.
func (a *App) ProfileTotal(w http.ResponseWriter, r *http.Request) {
	nickname := chi.URLParam(r, "nickname")
	if nickname == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "nickname required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectProfileTotalByNickname, nickname)
	var id, storedNickname string
	var total int64
	if err := row.Scan(&id, &storedNickname, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"id":             id,
		"nickname":       storedNickname,
		"total_donation": total,
	})
}
