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

type profileTestSQL struct {
	id       string
	nickname string
	total    int64
	found    bool
}

func (s *profileTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *profileTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not expected")
}

func (s *profileTestSQL) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	if query != sqlinline.QSelectProfileTotalByNickname {
		return NewSimpleRow(func(...any) error {
			return fmt.Errorf("unexpected query: %s", query)
		})
	}
	if !s.found {
		return SimpleRow{}
	}
	return NewSimpleRow(func(dest ...any) error {
		*dest[0].(*string) = s.id
		*dest[1].(*string) = s.nickname
		*dest[2].(*int64) = s.total
		return nil
	})
}

func TestProfileTotal(t *testing.T) {
	app := &App{
		SQL:    &profileTestSQL{id: "p-1", nickname: "유진이ෆ", total: 123456, found: true},
		Logger: zerolog.Nop(),
	}

	req := withURLParam(httptest.NewRequest("GET", "/v1/profiles/유진이ෆ", nil), "nickname", "유진이ෆ")
	rr := httptest.NewRecorder()
	app.ProfileTotal(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["nickname"] != "유진이ෆ" || payload["total_donation"] != float64(123456) {
		t.Fatalf("payload mismatch: %#v", payload)
	}
}

func TestProfileTotalNotFound(t *testing.T) {
	app := &App{SQL: &profileTestSQL{}, Logger: zerolog.Nop()}

	req := withURLParam(httptest.NewRequest("GET", "/v1/profiles/ghost", nil), "nickname", "ghost")
	rr := httptest.NewRecorder()
	app.ProfileTotal(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status code: got %d, want 404", rr.Code)
	}
}
