package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"heartboard/internal/ranking"
	"heartboard/internal/sqlinline"
)

type vipStatusDTO struct {
	DonorName      string `json:"donor_name"`
	Rank           *int   `json:"rank"`
	Eligible       bool   `json:"eligible"`
	IsPermanentVip bool   `json:"is_permanent_vip"`
	Threshold      int    `json:"threshold"`
}

// VIPStatus reports a donor's lifetime rank and whether it clears the VIP
// threshold. Eligibility is purely rank-based; the permanent flag is a
// separately curated field surfaced for the callers that honor it.
func (a *App) VIPStatus(w http.ResponseWriter, r *http.Request) {
	donorName := chi.URLParam(r, "donorName")
	if donorName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "donor name required")
		return
	}

	status := vipStatusDTO{DonorName: donorName, Threshold: a.VIPThreshold}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectLifetimeRankByName, donorName)
	var rank int
	if err := row.Scan(&rank, &status.IsPermanentVip); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusInternalServerError, "internal", "failed to look up rank")
			return
		}
		// Never ranked: not eligible.
		a.json(w, http.StatusOK, status)
		return
	}

	status.Rank = &rank
	status.Eligible = ranking.IsEligible(rank, a.VIPThreshold)
	a.json(w, http.StatusOK, status)
}
