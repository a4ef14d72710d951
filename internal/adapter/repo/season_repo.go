package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartboard/internal/domain"
)

// SeasonRepositoryPG implements domain.SeasonRepository using PostgreSQL.
type SeasonRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSeasonRepository creates a new season repo.
func NewSeasonRepository(pool *pgxpool.Pool) *SeasonRepositoryPG {
	return &SeasonRepositoryPG{pool: pool}
}

// GetByID fetches one season.
func (r *SeasonRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Season, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, start_date, end_date, is_active
FROM seasons
WHERE id = $1;
`, id)
	return scanSeason(row)
}

// GetActive resolves the single active season.
func (r *SeasonRepositoryPG) GetActive(ctx context.Context) (*domain.Season, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, start_date, end_date, is_active
FROM seasons
WHERE is_active
ORDER BY start_date DESC
LIMIT 1;
`)
	season, err := scanSeason(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoActiveSeason
	}
	return season, err
}

// SetActive flips the single active season: clear every flag, then set one.
// Both steps run in one transaction so readers never see zero or two active
// seasons.
func (r *SeasonRepositoryPG) SetActive(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE seasons SET is_active = FALSE WHERE is_active;`); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE seasons SET is_active = TRUE WHERE id = $1;`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func scanSeason(row pgx.Row) (*domain.Season, error) {
	var s domain.Season
	if err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
