package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"heartboard/internal/domain"
	"heartboard/internal/infra"
	"heartboard/internal/ranking"

	"github.com/rs/zerolog"
)

// App is the handler container for the read-model API. Read endpoints go
// through SQL directly; the admin rebuild endpoints drive the rebuilder
// over the repositories.
type App struct {
	SQL              infra.SQLExecutor
	Logger           zerolog.Logger
	VIPThreshold     int
	LeaderboardLimit int

	Rebuilder *ranking.Rebuilder
	Profiles  domain.ProfileRepository
	Seasons   domain.SeasonRepository

	// rebuildMu serializes snapshot rebuilds: the pipeline assumes a
	// single writer per scope.
	rebuildMu sync.Mutex
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{
		"error":   kind,
		"message": message,
	})
}
