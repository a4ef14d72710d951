package ranking

import (
	"sort"
	"strings"

	"heartboard/internal/domain"
)

// Aggregate merges normalized inputs into per-donor totals. Grouping is
// case-insensitive; the display casing of the first occurrence becomes the
// canonical label. Output is sorted descending by total with ties broken by
// first-seen order, so downstream rank assignment is deterministic for a
// given input sequence.
func Aggregate(inputs []domain.DonationInput) []domain.DonorTotal {
	acc := newAccumulator(len(inputs))
	for _, in := range inputs {
		acc.add(in.DonorName, in.Amount)
	}
	return acc.sorted()
}

// AggregateRecords is the full-recompute variant over stored records,
// used when a leaderboard is rebuilt from the authoritative table.
func AggregateRecords(records []domain.DonationRecord) []domain.DonorTotal {
	acc := newAccumulator(len(records))
	for _, rec := range records {
		acc.add(rec.DonorName, rec.Amount)
	}
	return acc.sorted()
}

type accumulator struct {
	byName map[string]*domain.DonorTotal
	order  []string
}

func newAccumulator(hint int) *accumulator {
	return &accumulator{byName: make(map[string]*domain.DonorTotal, hint)}
}

func (a *accumulator) add(name string, amount int64) {
	key := strings.ToLower(name)
	total, ok := a.byName[key]
	if !ok {
		total = &domain.DonorTotal{DonorName: name}
		a.byName[key] = total
		a.order = append(a.order, key)
	}
	total.TotalAmount += amount
	total.ContributionCount++
}

func (a *accumulator) sorted() []domain.DonorTotal {
	out := make([]domain.DonorTotal, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.byName[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount > out[j].TotalAmount
	})
	return out
}
