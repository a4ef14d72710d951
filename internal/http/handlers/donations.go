package handlers

import (
	"net/http"
	"strconv"
	"time"

	"heartboard/internal/sqlinline"
)

const defaultRecentDonationsLimit = 20

type donationDTO struct {
	ID             int64     `json:"id"`
	DonorProfileID *string   `json:"donor_profile_id"`
	DonorName      string    `json:"donor_name"`
	Amount         int64     `json:"amount"`
	Message        string    `json:"message,omitempty"`
	SeasonID       int64     `json:"season_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecentDonations serves the latest donation records, newest first. The
// overlay polls this feed between leaderboard refreshes.
func (a *App) RecentDonations(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentDonationsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be 1-100")
			return
		}
		limit = n
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRecentDonations, limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	defer rows.Close()

	items := []donationDTO{}
	for rows.Next() {
		var d donationDTO
		if err := rows.Scan(&d.ID, &d.DonorProfileID, &d.DonorName, &d.Amount, &d.Message, &d.SeasonID, &d.CreatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read donations")
			return
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
