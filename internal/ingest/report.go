package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"heartboard/internal/domain"
)

// Report summarizes one ingestion run. Failed counts every bad row even
// when Errors is truncated at the configured bound.
type Report struct {
	Inserted        int
	Skipped         int
	Updated         int
	Excluded        int
	Failed          int
	ProfilesCreated int
	Errors          []RowError
}

func (r *Report) count(action Action) {
	switch action {
	case ActionInsert:
		r.Inserted++
	case ActionSkip:
		r.Skipped++
	case ActionUpdate:
		r.Updated++
	}
}

func (r *Report) fail(maxErrors int, err RowError) {
	r.Failed++
	if maxErrors <= 0 || len(r.Errors) < maxErrors {
		r.Errors = append(r.Errors, err)
	}
}

var reportPrinter = message.NewPrinter(language.English)

// Summary renders the operator-facing run summary.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "inserted=%d skipped=%d updated=%d excluded=%d failed=%d",
		r.Inserted, r.Skipped, r.Updated, r.Excluded, r.Failed)
	if r.ProfilesCreated > 0 {
		fmt.Fprintf(&b, " profiles_created=%d", r.ProfilesCreated)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "\n  %s", e.Error())
	}
	if r.Failed > len(r.Errors) {
		fmt.Fprintf(&b, "\n  ... and %d more", r.Failed-len(r.Errors))
	}
	return b.String()
}

// FormatTopDonors renders a ranked preview of aggregated totals, used for
// dry-run output before anything is committed.
func FormatTopDonors(totals []domain.DonorTotal, n int) string {
	if n > len(totals) {
		n = len(totals)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		t := totals[i]
		fmt.Fprintf(&b, "%3d. %s: %s hearts (%d donations)\n",
			i+1, t.DonorName, reportPrinter.Sprintf("%d", t.TotalAmount), t.ContributionCount)
	}
	return b.String()
}
