package ranking

// DefaultVIPThreshold is the product's Top-50 VIP lounge rule.
const DefaultVIPThreshold = 50

// IsEligible reports whether a leaderboard rank grants VIP access. A donor
// with no rank (never on the board) passes rank 0 and is not eligible.
func IsEligible(rank, threshold int) bool {
	return rank >= 1 && rank <= threshold
}
