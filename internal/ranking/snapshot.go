package ranking

import "heartboard/internal/domain"

// BuildEntries truncates already-sorted donor totals to limit and assigns
// contiguous ranks starting at 1. The totals must come from Aggregate or
// AggregateRecords so rank order matches the aggregation tie-break.
func BuildEntries(seasonID int64, totals []domain.DonorTotal, limit int) []domain.LeaderboardEntry {
	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	entries := make([]domain.LeaderboardEntry, len(totals))
	for i, total := range totals {
		entries[i] = domain.LeaderboardEntry{
			SeasonID:          seasonID,
			Rank:              i + 1,
			DonorName:         total.DonorName,
			TotalAmount:       total.TotalAmount,
			ContributionCount: total.ContributionCount,
		}
	}
	return entries
}
