package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"heartboard/internal/domain"
)

// Schema identifies which header scheme a spreadsheet export uses.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaLedger is the per-event export: one row per donation with a
	// timestamp and an optional message.
	SchemaLedger
	// SchemaRankingExport is the cumulative export: one row per donor with
	// a pre-summed heart total and no timestamp.
	SchemaRankingExport
)

func (s Schema) String() string {
	switch s {
	case SchemaLedger:
		return "ledger"
	case SchemaRankingExport:
		return "ranking-export"
	default:
		return "unknown"
	}
}

// Header aliases accepted per field. Exports come from two spreadsheet
// tools, each with its own column names, plus occasional hand-edited files
// using the english names.
var (
	donorKeys         = []string{"후원 아이디(닉네임)", "ID", "donor_name", "donor_id", "id"}
	ledgerAmountKeys  = []string{"후원하트", "하트", "amount", "hearts"}
	rankingAmountKeys = []string{"총 후원하트", "하트", "total_amount"}
	dateKeys          = []string{"후원시간", "일시", "date"}
	messageKeys       = []string{"내용", "message"}
	rankKeys          = []string{"순위", "rank"}
)

// ErrRowExcluded marks rows dropped by design: penalties (non-positive
// hearts) and house-account donations. Excluded rows are not failures.
var ErrRowExcluded = errors.New("row excluded")

// RowError reports a single unparseable row. Row numbers are 1-based and
// match the input file's line numbering, header included.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

var donorFieldPattern = regexp.MustCompile(`^([^(]*)\(([^)]+)\)$`)

// SplitDonorField separates an "externalId(nickname)" donor field. Without
// a parenthesized segment the whole field is the nickname.
func SplitDonorField(field string) (platformID, nickname string) {
	field = strings.TrimSpace(field)
	if m := donorFieldPattern.FindStringSubmatch(field); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", field
}

// DetectSchema scores both header schemes and returns the one with more
// populated required fields, preferring the ledger scheme on a tie.
func DetectSchema(headers []string) Schema {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := present[k]; ok {
				return true
			}
		}
		return false
	}

	ledgerScore := 0
	if has(donorKeys...) {
		ledgerScore++
	}
	if has("후원하트", "하트", "amount", "hearts") {
		ledgerScore++
	}
	if has(dateKeys...) {
		ledgerScore++
	}
	if has(messageKeys...) {
		ledgerScore++
	}

	rankingScore := 0
	if has(donorKeys...) {
		rankingScore++
	}
	if has("총 후원하트") {
		rankingScore++
	}
	if has(rankKeys...) {
		rankingScore++
	}

	if ledgerScore < 2 && rankingScore < 2 {
		return SchemaUnknown
	}
	if rankingScore > ledgerScore {
		return SchemaRankingExport
	}
	return SchemaLedger
}

// Normalizer turns raw delimited rows into validated donation inputs. It
// owns all input-format tolerance: header aliases, nickname extraction,
// numeric cleanup and exclusion rules.
type Normalizer struct {
	loc           *time.Location
	houseAccounts []string
	now           func() time.Time
}

// NewNormalizer builds a normalizer for the given reporting timezone and
// house-account patterns. Donor names containing any of the patterns are
// dropped; those are the broadcaster's own operating accounts.
func NewNormalizer(loc *time.Location, houseAccounts []string) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, houseAccounts: houseAccounts, now: time.Now}
}

// Normalize validates one row under the given schema. It returns
// ErrRowExcluded for rows dropped by design and a *RowError for rows that
// are genuinely unparseable; callers collect row errors and continue.
func (n *Normalizer) Normalize(row map[string]string, schema Schema, seasonID int64, rowNum int) (*domain.DonationInput, error) {
	donorField, ok := firstValue(row, donorKeys)
	if !ok || donorField == "" {
		return nil, &RowError{Row: rowNum, Reason: "missing donor name"}
	}
	platformID, nickname := SplitDonorField(donorField)
	if nickname == "" {
		return nil, &RowError{Row: rowNum, Reason: "missing donor name"}
	}

	amountKeys := ledgerAmountKeys
	if schema == SchemaRankingExport {
		amountKeys = rankingAmountKeys
	}
	amountStr, ok := firstValue(row, amountKeys)
	if !ok {
		return nil, &RowError{Row: rowNum, Reason: "no amount field"}
	}
	amount := parseHearts(amountStr)
	if amount <= 0 {
		// Penalties and refunds come through as zero or negative hearts.
		return nil, ErrRowExcluded
	}

	for _, pattern := range n.houseAccounts {
		if pattern != "" && strings.Contains(nickname, pattern) {
			return nil, ErrRowExcluded
		}
	}

	occurredAt := n.now().In(n.loc)
	if dateStr, ok := firstValue(row, dateKeys); ok && dateStr != "" {
		if parsed, err := parseEventTime(dateStr, n.loc); err == nil {
			occurredAt = parsed
		}
	}

	message, _ := firstValue(row, messageKeys)

	return &domain.DonationInput{
		DonorName:  nickname,
		PlatformID: platformID,
		Amount:     amount,
		Message:    message,
		SeasonID:   seasonID,
		OccurredAt: occurredAt,
	}, nil
}

func firstValue(row map[string]string, keys []string) (string, bool) {
	found := false
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			continue
		}
		found = true
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed, true
		}
	}
	return "", found
}

// parseHearts strips thousands separators before parsing. A value that
// still fails to parse counts as zero, which the exclusion rule then drops.
func parseHearts(s string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

var eventTimeLayouts = []string{
	"06.01.02 15:04:05",
	"06.01.02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseEventTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event time %q", s)
}
