package ranking

import "testing"

func TestIsEligible(t *testing.T) {
	cases := []struct {
		rank      int
		threshold int
		want      bool
	}{
		{1, 50, true},
		{50, 50, true},
		{51, 50, false},
		{0, 50, false},  // never ranked
		{-1, 50, false},
		{10, 10, true},
		{11, 10, false},
	}
	for _, c := range cases {
		if got := IsEligible(c.rank, c.threshold); got != c.want {
			t.Fatalf("IsEligible(%d, %d) = %v, want %v", c.rank, c.threshold, got, c.want)
		}
	}
}
