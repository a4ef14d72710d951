package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"heartboard/internal/domain"
)

// Runner drives ingestion of spreadsheet exports for one season. Rows are
// processed sequentially; order matters for the aggregator's first-seen
// tie-break, and the data scale (tens of thousands of rows) does not call
// for more.
type Runner struct {
	Normalizer     *Normalizer
	Donations      domain.DonationRepository
	Profiles       domain.ProfileRepository
	Logger         zerolog.Logger
	Policy         Policy
	DryRun         bool
	CreateProfiles bool
	MaxErrors      int
}

// IngestFiles processes every file in order and returns the combined run
// report plus every normalized input, which callers use for dry-run
// previews. A bad row never aborts its file; a missing file does.
func (r *Runner) IngestFiles(ctx context.Context, seasonID int64, paths []string) (*Report, []domain.DonationInput, error) {
	report := &Report{}
	var inputs []domain.DonationInput

	cache := newProfileCache(r.Profiles)
	// Dry runs commit nothing, so same-day duplicates within the run are
	// tracked here to keep the preview counts honest.
	pending := make(map[string]*domain.DonationRecord)

	for _, path := range paths {
		r.Logger.Info().Str("file", path).Msg("ingesting file")
		fileInputs, err := r.ingestFile(ctx, seasonID, path, report, cache, pending)
		if err != nil {
			return report, inputs, fmt.Errorf("ingest %s: %w", path, err)
		}
		inputs = append(inputs, fileInputs...)
	}

	return report, inputs, nil
}

func (r *Runner) ingestFile(ctx context.Context, seasonID int64, path string, report *Report, cache *profileCache, pending map[string]*domain.DonationRecord) ([]domain.DonationInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	schema := DetectSchema(headers)
	if schema == SchemaUnknown {
		return nil, fmt.Errorf("unrecognized header scheme: %s", strings.Join(headers, ","))
	}
	r.Logger.Debug().Str("file", path).Stringer("schema", schema).Msg("schema detected")

	var inputs []domain.DonationInput
	rowNum := 1 // header is line 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			report.fail(r.MaxErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}

		in, err := r.Normalizer.Normalize(row, schema, seasonID, rowNum)
		if err != nil {
			if errors.Is(err, ErrRowExcluded) {
				report.Excluded++
				continue
			}
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				report.fail(r.MaxErrors, *rowErr)
				continue
			}
			return inputs, err
		}

		inputs = append(inputs, *in)
		if err := r.commitRow(ctx, *in, rowNum, report, cache, pending); err != nil {
			return inputs, err
		}
	}

	return inputs, nil
}

// commitRow resolves one input against the store and applies the outcome.
// Persistence failures fail only the row.
func (r *Runner) commitRow(ctx context.Context, in domain.DonationInput, rowNum int, report *Report, cache *profileCache, pending map[string]*domain.DonationRecord) error {
	existing, err := r.Donations.FindSameDay(ctx, in.DonorName, in.SeasonID, in.OccurredAt)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		report.fail(r.MaxErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("duplicate lookup: %v", err)})
		return nil
	}

	if r.DryRun {
		key := sameDayKey(in, r.Normalizer.loc)
		if rec, ok := pending[key]; ok {
			existing = rec
		}
		outcome := Resolve(in, existing, r.Policy)
		report.count(outcome.Action)
		switch outcome.Action {
		case ActionInsert:
			pending[key] = &domain.DonationRecord{
				DonorName: in.DonorName,
				Amount:    outcome.Amount,
				Message:   outcome.Message,
				SeasonID:  in.SeasonID,
				CreatedAt: in.OccurredAt,
			}
		case ActionUpdate:
			existing.Amount = outcome.Amount
			existing.Message = outcome.Message
			pending[key] = existing
		}
		return nil
	}

	outcome := Resolve(in, existing, r.Policy)

	profileID, created, err := cache.match(ctx, in, r.CreateProfiles)
	if err != nil {
		// A profile miss degrades to an unlinked record, never a row failure.
		r.Logger.Warn().Err(err).Str("donor", in.DonorName).Msg("profile match failed, storing unlinked")
	}
	if created {
		report.ProfilesCreated++
	}

	switch outcome.Action {
	case ActionSkip:
		report.Skipped++
		return nil
	case ActionInsert:
		rec := &domain.DonationRecord{
			DonorProfileID: profileID,
			DonorName:      in.DonorName,
			Amount:         outcome.Amount,
			Message:        outcome.Message,
			SeasonID:       in.SeasonID,
			CreatedAt:      in.OccurredAt,
		}
		if err := r.Donations.InsertWithDelta(ctx, rec); err != nil {
			report.fail(r.MaxErrors, RowError{Row: rowNum, Reason: err.Error()})
			return nil
		}
		report.Inserted++
	case ActionUpdate:
		// The delta belongs to the profile owning the stored record. When
		// a record stored unlinked gains a profile now, that profile
		// adopts it whole: the record is linked and credited at its full
		// updated amount, not just the increment, so the profile total
		// stays equal to the sum of its records.
		targetProfile := existing.DonorProfileID
		delta := outcome.LifetimeDelta
		if targetProfile == nil && profileID != nil {
			targetProfile = profileID
			delta = outcome.Amount
		}
		if r.Policy == PolicyAccumulate {
			err = r.Donations.AccumulateWithDelta(ctx, existing.ID, outcome.Amount, outcome.Message, targetProfile, delta)
		} else {
			err = r.Donations.OverwriteWithDelta(ctx, existing.ID, outcome.Amount, outcome.Message, in.OccurredAt, targetProfile, delta)
		}
		if err != nil {
			report.fail(r.MaxErrors, RowError{Row: rowNum, Reason: err.Error()})
			return nil
		}
		report.Updated++
	}
	return nil
}

// sameDayKey is the duplicate key for uncommitted rows: case-insensitive
// donor name, season and the calendar day in the reporting timezone.
func sameDayKey(in domain.DonationInput, loc *time.Location) string {
	day := in.OccurredAt.In(loc).Format("2006-01-02")
	return fmt.Sprintf("%s|%d|%s", strings.ToLower(in.DonorName), in.SeasonID, day)
}

// profileCache memoizes nickname lookups within one run so a donor
// appearing in several files resolves to one profile.
type profileCache struct {
	repo    domain.ProfileRepository
	byName  map[string]*string
	missing map[string]struct{}
}

func newProfileCache(repo domain.ProfileRepository) *profileCache {
	return &profileCache{
		repo:    repo,
		byName:  make(map[string]*string),
		missing: make(map[string]struct{}),
	}
}

// match resolves an input to a profile ID: cache, then nickname, then the
// external platform id, then auto-creation when enabled. Returns nil for an
// unregistered donor.
func (c *profileCache) match(ctx context.Context, in domain.DonationInput, create bool) (id *string, created bool, err error) {
	key := strings.ToLower(in.DonorName)
	if cached, ok := c.byName[key]; ok {
		return cached, false, nil
	}
	if _, ok := c.missing[key]; ok && !create {
		return nil, false, nil
	}

	profile, err := c.repo.GetByNickname(ctx, in.DonorName)
	if err == nil {
		c.byName[key] = &profile.ID
		return &profile.ID, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	if in.PlatformID != "" {
		profile, err = c.repo.GetByPlatformID(ctx, in.PlatformID)
		if err == nil {
			// Known account under a changed nickname.
			c.byName[key] = &profile.ID
			return &profile.ID, false, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
	}

	if !create {
		c.missing[key] = struct{}{}
		return nil, false, nil
	}

	newProfile := &domain.Profile{
		ID:       uuid.NewString(),
		Nickname: in.DonorName,
	}
	if in.PlatformID != "" {
		pid := in.PlatformID
		newProfile.PlatformID = &pid
	}
	if err := c.repo.Create(ctx, newProfile); err != nil {
		c.missing[key] = struct{}{}
		return nil, false, err
	}
	c.byName[key] = &newProfile.ID
	return &newProfile.ID, true, nil
}
