package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"heartboard/internal/sqlinline"
)

type donationRow struct {
	id             int64
	donorProfileID *string
	donorName      string
	amount         int64
	message        string
	seasonID       int64
	createdAt      time.Time
}

type donationTestSQL struct {
	rows     []donationRow
	gotLimit any
}

func (s *donationTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *donationTestSQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return SimpleRow{}
}

func (s *donationTestSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if query != sqlinline.QListRecentDonations {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("unexpected args count: %d", len(args))
	}
	s.gotLimit = args[0]
	return &donationRowsIterator{rows: s.rows}, nil
}

type donationRowsIterator struct {
	TestRowsBase
	rows []donationRow
	idx  int
}

func (it *donationRowsIterator) Next() bool {
	if it.idx >= len(it.rows) {
		return false
	}
	it.idx++
	return true
}

func (it *donationRowsIterator) Scan(dest ...any) error {
	if it.idx == 0 || it.idx > len(it.rows) {
		return pgx.ErrNoRows
	}
	row := it.rows[it.idx-1]
	*dest[0].(*int64) = row.id
	*dest[1].(**string) = row.donorProfileID
	*dest[2].(*string) = row.donorName
	*dest[3].(*int64) = row.amount
	*dest[4].(*string) = row.message
	*dest[5].(*int64) = row.seasonID
	*dest[6].(*time.Time) = row.createdAt
	return nil
}

func (it *donationRowsIterator) Close()     {}
func (it *donationRowsIterator) Err() error { return nil }

func TestRecentDonations(t *testing.T) {
	profileID := "p-1"
	sql := &donationTestSQL{rows: []donationRow{
		{id: 2, donorProfileID: &profileID, donorName: "유진이ෆ", amount: 500, message: "second", seasonID: 1, createdAt: time.Now()},
		{id: 1, donorProfileID: nil, donorName: "익명", amount: 100, seasonID: 1, createdAt: time.Now()},
	}}
	app := &App{SQL: sql, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/v1/donations/recent", nil)
	rr := httptest.NewRecorder()
	app.RecentDonations(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	if sql.gotLimit != defaultRecentDonationsLimit {
		t.Fatalf("default limit mismatch: got %v want %d", sql.gotLimit, defaultRecentDonationsLimit)
	}
	items := decodeItems(t, rr)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// An unregistered donor's record carries a null profile reference.
	if v, ok := items[1]["donor_profile_id"]; !ok || v != nil {
		t.Fatalf("expected null donor_profile_id, got %#v", v)
	}
}

func TestRecentDonationsRejectsBadLimit(t *testing.T) {
	app := &App{SQL: &donationTestSQL{}, Logger: zerolog.Nop()}

	for _, raw := range []string{"0", "101", "abc"} {
		req := httptest.NewRequest("GET", "/v1/donations/recent?limit="+raw, nil)
		rr := httptest.NewRecorder()
		app.RecentDonations(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: unexpected status code: got %d, want 400", raw, rr.Code)
		}
	}
}
