package domain

import "time"

// Season bounds one ranking period. At most one season is active at a time;
// the activation write path clears every flag before setting one, so the
// two steps must run inside a transaction.
type Season struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	IsActive  bool
}
