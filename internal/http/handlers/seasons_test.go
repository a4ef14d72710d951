package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"heartboard/internal/domain"
)

type stubSeasonRepo struct {
	activated []int64
	setErr    error
}

func (s *stubSeasonRepo) GetByID(context.Context, int64) (*domain.Season, error) {
	return nil, domain.ErrNotFound
}

func (s *stubSeasonRepo) GetActive(context.Context) (*domain.Season, error) {
	return nil, domain.ErrNoActiveSeason
}

func (s *stubSeasonRepo) SetActive(_ context.Context, id int64) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.activated = append(s.activated, id)
	return nil
}

func TestActivateSeason(t *testing.T) {
	seasons := &stubSeasonRepo{}
	app := &App{Logger: zerolog.Nop(), Seasons: seasons}

	req := withURLParam(httptest.NewRequest("POST", "/v1/admin/seasons/3/activate", nil), "seasonID", "3")
	rr := httptest.NewRecorder()
	app.ActivateSeason(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	if len(seasons.activated) != 1 || seasons.activated[0] != 3 {
		t.Fatalf("activation mismatch: %v", seasons.activated)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["is_active"] != true {
		t.Fatalf("payload mismatch: %#v", payload)
	}
}

func TestActivateSeasonNotFound(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Seasons: &stubSeasonRepo{setErr: domain.ErrNotFound}}

	req := withURLParam(httptest.NewRequest("POST", "/v1/admin/seasons/99/activate", nil), "seasonID", "99")
	rr := httptest.NewRecorder()
	app.ActivateSeason(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status code: got %d, want 404", rr.Code)
	}
}

func TestActivateSeasonRejectsBadID(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Seasons: &stubSeasonRepo{}}

	req := withURLParam(httptest.NewRequest("POST", "/v1/admin/seasons/x/activate", nil), "seasonID", "x")
	rr := httptest.NewRecorder()
	app.ActivateSeason(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status code: got %d, want 400", rr.Code)
	}
}
