package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"heartboard/internal/sqlinline"
)

type vipTestSQL struct {
	rank           int
	isPermanentVip bool
	ranked         bool
}

func (s *vipTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *vipTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not expected")
}

func (s *vipTestSQL) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	if query != sqlinline.QSelectLifetimeRankByName {
		return NewSimpleRow(func(...any) error {
			return fmt.Errorf("unexpected query: %s", query)
		})
	}
	if !s.ranked {
		return SimpleRow{}
	}
	return NewSimpleRow(func(dest ...any) error {
		*dest[0].(*int) = s.rank
		*dest[1].(*bool) = s.isPermanentVip
		return nil
	})
}

func vipStatusFor(t *testing.T, app *App, donorName string) (int, vipStatusDTO) {
	t.Helper()
	req := withURLParam(httptest.NewRequest("GET", "/v1/vip/"+donorName, nil), "donorName", donorName)
	rr := httptest.NewRecorder()
	app.VIPStatus(rr, req)

	var status vipStatusDTO
	if rr.Code == http.StatusOK {
		if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rr.Code, status
}

func TestVIPStatusEligible(t *testing.T) {
	app := &App{SQL: &vipTestSQL{rank: 7, ranked: true}, Logger: zerolog.Nop(), VIPThreshold: 50}

	code, status := vipStatusFor(t, app, "미키™")
	if code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d, want 200", code)
	}
	if status.Rank == nil || *status.Rank != 7 {
		t.Fatalf("rank mismatch: %+v", status)
	}
	if !status.Eligible {
		t.Fatalf("rank 7 under threshold 50 must be eligible: %+v", status)
	}
}

func TestVIPStatusAtThresholdBoundary(t *testing.T) {
	app := &App{SQL: &vipTestSQL{rank: 50, ranked: true}, Logger: zerolog.Nop(), VIPThreshold: 50}
	if _, status := vipStatusFor(t, app, "edge"); !status.Eligible {
		t.Fatalf("rank 50 at threshold 50 must be eligible: %+v", status)
	}

	app = &App{SQL: &vipTestSQL{rank: 51, ranked: true}, Logger: zerolog.Nop(), VIPThreshold: 50}
	if _, status := vipStatusFor(t, app, "edge"); status.Eligible {
		t.Fatalf("rank 51 must not be eligible: %+v", status)
	}
}

func TestVIPStatusNeverRanked(t *testing.T) {
	app := &App{SQL: &vipTestSQL{ranked: false}, Logger: zerolog.Nop(), VIPThreshold: 50}

	code, status := vipStatusFor(t, app, "신규닉")
	if code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d, want 200", code)
	}
	if status.Rank != nil {
		t.Fatalf("unranked donor must carry a null rank: %+v", status)
	}
	if status.Eligible {
		t.Fatalf("unranked donor must not be eligible: %+v", status)
	}
}

func TestVIPStatusCarriesPermanentFlag(t *testing.T) {
	app := &App{SQL: &vipTestSQL{rank: 120, isPermanentVip: true, ranked: true}, Logger: zerolog.Nop(), VIPThreshold: 50}

	_, status := vipStatusFor(t, app, "전설")
	if !status.IsPermanentVip {
		t.Fatalf("permanent flag lost: %+v", status)
	}
	// Rank-based eligibility stays independent of the curated flag.
	if status.Eligible {
		t.Fatalf("rank 120 must not be rank-eligible: %+v", status)
	}
}

func TestVIPStatusRequiresDonorName(t *testing.T) {
	app := &App{SQL: &vipTestSQL{}, Logger: zerolog.Nop(), VIPThreshold: 50}

	code, _ := vipStatusFor(t, app, "")
	if code != http.StatusBadRequest {
		t.Fatalf("unexpected status code: got %d, want 400", code)
	}
}
