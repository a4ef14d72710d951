package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartboard/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewDonationRepository creates a new donation repo. The location defines
// calendar-day boundaries for duplicate detection.
func NewDonationRepository(pool *pgxpool.Pool, loc *time.Location) *DonationRepositoryPG {
	if loc == nil {
		loc = time.UTC
	}
	return &DonationRepositoryPG{pool: pool, loc: loc}
}

// FindSameDay returns the stored record matching the duplicate key:
// case-insensitive donor name, season and the calendar day of occurredAt in
// the reporting timezone. Multiple same-day records collapse into the
// earliest candidate.
func (r *DonationRepositoryPG) FindSameDay(ctx context.Context, donorName string, seasonID int64, occurredAt time.Time) (*domain.DonationRecord, error) {
	local := occurredAt.In(r.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	row := r.pool.QueryRow(ctx, `
SELECT id, donor_profile_id, donor_name, amount, message, season_id, created_at
FROM donations
WHERE lower(donor_name) = lower($1)
  AND season_id = $2
  AND created_at >= $3
  AND created_at < $4
ORDER BY created_at
LIMIT 1;
`, donorName, seasonID, dayStart, dayEnd)

	return scanDonation(row)
}

// InsertWithDelta inserts a record and, when it is linked to a profile,
// applies the amount to the profile's lifetime total in the same
// transaction.
func (r *DonationRepositoryPG) InsertWithDelta(ctx context.Context, record *domain.DonationRecord) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
INSERT INTO donations (donor_profile_id, donor_name, amount, message, season_id, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING id;
`, record.DonorProfileID, record.DonorName, record.Amount, record.Message, record.SeasonID, record.CreatedAt)
		if err := row.Scan(&record.ID); err != nil {
			return err
		}
		if record.DonorProfileID != nil {
			return applyProfileDelta(ctx, tx, *record.DonorProfileID, record.Amount)
		}
		return nil
	})
}

// OverwriteWithDelta replaces a record's amount and message and adjusts the
// owning profile's total by the signed delta, atomically. The record's
// profile link is written alongside so a previously unlinked record ends up
// owned by the profile that receives the delta.
func (r *DonationRepositoryPG) OverwriteWithDelta(ctx context.Context, id int64, amount int64, message string, occurredAt time.Time, profileID *string, delta int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE donations
SET amount = $2, message = NULLIF($3, ''), created_at = $4, donor_profile_id = $5
WHERE id = $1;
`, id, amount, message, occurredAt, profileID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if profileID != nil && delta != 0 {
			return applyProfileDelta(ctx, tx, *profileID, delta)
		}
		return nil
	})
}

// AccumulateWithDelta stores the pre-summed amount and breadcrumb message
// and credits the signed delta to the profile total. Like the overwrite
// path, the record's profile link is written in the same statement.
func (r *DonationRepositoryPG) AccumulateWithDelta(ctx context.Context, id int64, amount int64, message string, profileID *string, delta int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE donations
SET amount = $2, message = NULLIF($3, ''), donor_profile_id = $4
WHERE id = $1;
`, id, amount, message, profileID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if profileID != nil && delta != 0 {
			return applyProfileDelta(ctx, tx, *profileID, delta)
		}
		return nil
	})
}

// ListBySeason returns every record in a season, oldest first. Order is the
// aggregation tie-break for rank assignment.
func (r *DonationRepositoryPG) ListBySeason(ctx context.Context, seasonID int64) ([]domain.DonationRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, donor_profile_id, donor_name, amount, message, season_id, created_at
FROM donations
WHERE season_id = $1
ORDER BY created_at, id;
`, seasonID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListAll returns every stored record, oldest first.
func (r *DonationRepositoryPG) ListAll(ctx context.Context) ([]domain.DonationRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, donor_profile_id, donor_name, amount, message, season_id, created_at
FROM donations
ORDER BY created_at, id;
`)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

func applyProfileDelta(ctx context.Context, tx pgx.Tx, profileID string, delta int64) error {
	_, err := tx.Exec(ctx, `
UPDATE profiles
SET total_donation = total_donation + $2, updated_at = NOW()
WHERE id = $1;
`, profileID, delta)
	return err
}

func collectDonations(rows pgx.Rows) ([]domain.DonationRecord, error) {
	defer rows.Close()
	var items []domain.DonationRecord
	for rows.Next() {
		var rec domain.DonationRecord
		var message *string
		if err := rows.Scan(&rec.ID, &rec.DonorProfileID, &rec.DonorName, &rec.Amount, &message, &rec.SeasonID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if message != nil {
			rec.Message = *message
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDonation(row pgx.Row) (*domain.DonationRecord, error) {
	var rec domain.DonationRecord
	var message *string
	if err := row.Scan(&rec.ID, &rec.DonorProfileID, &rec.DonorName, &rec.Amount, &message, &rec.SeasonID, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if message != nil {
		rec.Message = *message
	}
	return &rec, nil
}
