package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoActiveSeason   = errors.New("no active season")
	ErrEmptyLeaderboard = errors.New("no donor totals to rank")
	ErrDriftDetected    = errors.New("profile total drift detected")
)
