package ingest

import (
	"fmt"

	"heartboard/internal/domain"
)

// Policy controls what happens when an incoming row collides with an
// already stored record for the same donor, season and calendar day.
type Policy int

const (
	// PolicySkip discards the incoming row. Re-running the same file is a
	// no-op after the first run.
	PolicySkip Policy = iota
	// PolicyOverwrite replaces the stored amount and message with the
	// incoming values. Re-running the same file computes a zero delta.
	PolicyOverwrite
	// PolicyAccumulate adds the incoming amount on top of the stored one.
	// NOT idempotent: replaying a file double-counts. It exists to merge
	// genuinely distinct same-day donations reported in separate files.
	PolicyAccumulate
)

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyOverwrite:
		return "overwrite"
	case PolicyAccumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps the operator-facing flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "skip":
		return PolicySkip, nil
	case "overwrite":
		return PolicyOverwrite, nil
	case "accumulate":
		return PolicyAccumulate, nil
	default:
		return PolicySkip, fmt.Errorf("unknown duplicate policy %q (want skip, overwrite or accumulate)", s)
	}
}

// Action is the persistence step a resolution calls for.
type Action int

const (
	ActionInsert Action = iota
	ActionSkip
	ActionUpdate
)

// Outcome describes how to commit one input: which write to perform, the
// final amount and message for updates, and the signed delta to apply to
// the donor's lifetime total alongside the write.
type Outcome struct {
	Action        Action
	Amount        int64
	Message       string
	LifetimeDelta int64
}

// Resolve decides what to do with an input given the stored same-day
// record, if any. The duplicate key (case-insensitive donor name, season,
// calendar day) is the caller's lookup contract; Resolve itself is pure.
func Resolve(in domain.DonationInput, existing *domain.DonationRecord, policy Policy) Outcome {
	if existing == nil {
		return Outcome{
			Action:        ActionInsert,
			Amount:        in.Amount,
			Message:       in.Message,
			LifetimeDelta: in.Amount,
		}
	}

	switch policy {
	case PolicyOverwrite:
		return Outcome{
			Action:        ActionUpdate,
			Amount:        in.Amount,
			Message:       in.Message,
			LifetimeDelta: in.Amount - existing.Amount,
		}
	case PolicyAccumulate:
		breadcrumb := fmt.Sprintf("%d+%d", existing.Amount, in.Amount)
		if in.Message != "" {
			breadcrumb = fmt.Sprintf("%s: %s", breadcrumb, in.Message)
		}
		return Outcome{
			Action:        ActionUpdate,
			Amount:        existing.Amount + in.Amount,
			Message:       breadcrumb,
			LifetimeDelta: in.Amount,
		}
	default:
		return Outcome{Action: ActionSkip}
	}
}
