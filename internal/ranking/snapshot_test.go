package ranking

import (
	"testing"

	"heartboard/internal/domain"
)

func TestBuildEntriesAssignsContiguousRanks(t *testing.T) {
	totals := []domain.DonorTotal{
		{DonorName: "a", TotalAmount: 300, ContributionCount: 3},
		{DonorName: "b", TotalAmount: 200, ContributionCount: 1},
		{DonorName: "c", TotalAmount: 100, ContributionCount: 2},
	}

	entries := BuildEntries(7, totals, 50)
	if len(entries) != 3 {
		t.Fatalf("entry count mismatch: got %d want 3", len(entries))
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("rank at %d mismatch: got %d want %d", i, e.Rank, i+1)
		}
		if e.SeasonID != 7 {
			t.Fatalf("season id mismatch: got %d want 7", e.SeasonID)
		}
	}
	if entries[1].ContributionCount != 1 {
		t.Fatalf("contribution count not carried: %+v", entries[1])
	}
}

func TestBuildEntriesTruncatesAtLimit(t *testing.T) {
	totals := make([]domain.DonorTotal, 60)
	for i := range totals {
		totals[i] = domain.DonorTotal{DonorName: "d", TotalAmount: int64(60 - i)}
	}

	entries := BuildEntries(1, totals, 50)
	if len(entries) != 50 {
		t.Fatalf("entry count mismatch: got %d want 50", len(entries))
	}
	if entries[49].Rank != 50 {
		t.Fatalf("last rank mismatch: got %d want 50", entries[49].Rank)
	}
}

func TestBuildEntriesZeroLimitKeepsAll(t *testing.T) {
	totals := []domain.DonorTotal{{DonorName: "a", TotalAmount: 1}, {DonorName: "b", TotalAmount: 1}}
	if entries := BuildEntries(1, totals, 0); len(entries) != 2 {
		t.Fatalf("entry count mismatch: got %d want 2", len(entries))
	}
}
