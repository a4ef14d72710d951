package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartboard/internal/domain"
)

// ProfileRepositoryPG implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{pool: pool}
}

// GetByNickname fetches a profile by case-insensitive exact nickname match.
func (r *ProfileRepositoryPG) GetByNickname(ctx context.Context, nickname string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, nickname, platform_id, total_donation, created_at, updated_at
FROM profiles
WHERE lower(nickname) = lower($1);
`, nickname)
	return scanProfile(row)
}

// GetByPlatformID fetches a profile by its external platform account id.
func (r *ProfileRepositoryPG) GetByPlatformID(ctx context.Context, platformID string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, nickname, platform_id, total_donation, created_at, updated_at
FROM profiles
WHERE platform_id = $1;
`, platformID)
	return scanProfile(row)
}

// Create inserts a new profile with a zero lifetime total.
func (r *ProfileRepositoryPG) Create(ctx context.Context, profile *domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (id, nickname, platform_id, total_donation)
VALUES ($1, $2, $3, 0);
`, profile.ID, profile.Nickname, profile.PlatformID)
	return err
}

// RecomputeTotal returns the stored running total next to the sum over the
// profile's donation records. Callers compare the two; a mismatch is
// reported as drift, never silently corrected here.
func (r *ProfileRepositoryPG) RecomputeTotal(ctx context.Context, profileID string) (stored int64, actual int64, err error) {
	row := r.pool.QueryRow(ctx, `
SELECT p.total_donation,
       COALESCE((SELECT SUM(d.amount) FROM donations d WHERE d.donor_profile_id = p.id), 0)
FROM profiles p
WHERE p.id = $1;
`, profileID)
	if err := row.Scan(&stored, &actual); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrNotFound
		}
		return 0, 0, err
	}
	return stored, actual, nil
}

// SetTotal overwrites the lifetime total, used only by the explicit repair
// path after drift has been reported to an operator.
func (r *ProfileRepositoryPG) SetTotal(ctx context.Context, profileID string, total int64) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE profiles
SET total_donation = $2, updated_at = NOW()
WHERE id = $1;
`, profileID, total)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every profile, used by the drift verification sweep.
func (r *ProfileRepositoryPG) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, nickname, platform_id, total_donation, created_at, updated_at
FROM profiles
ORDER BY nickname;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Nickname, &p.PlatformID, &p.TotalDonation, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Nickname, &p.PlatformID, &p.TotalDonation, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
