// Package alerts holds the deadline urgency logic shared by the report
// API, the dispatcher console, and every dashboard consumer. There is one
// implementation of this logic; views must not re-derive it.
package alerts

import (
	"fmt"
	"math"
	"time"
)

// Report statuses. Transitions are admin-triggered and unconstrained.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusRejected   = "Rejected"
)

// ValidStatus reports whether s is one of the four enumerated statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Tier is the display urgency derived from a report's deadline fields.
type Tier string

const (
	TierCritical Tier = "critical"
	TierOverdue  Tier = "overdue"
	TierDueToday Tier = "dueToday"
	TierWarning  Tier = "warning"
)

// Classification pairs a tier with its human-readable label.
type Classification struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Midnight truncates t to the start of its day. All deadline comparisons
// happen at day granularity so partial-day differences cannot shift the
// tier.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Classify maps a report's deadline fields to an urgency tier. A hit final
// deadline wins over any soft-deadline state. The function is total: every
// input combination yields a classification.
//
// Deadlines are persisted in UTC, so every input is shifted to UTC before
// truncation. Truncating each side in its own zone would leave a
// partial-day residue and shift the tier on non-UTC hosts.
func Classify(deadline, finalDeadline *time.Time, today time.Time) Classification {
	today = Midnight(today.UTC())

	if finalDeadline != nil && !Midnight(finalDeadline.UTC()).After(today) {
		return Classification{Tier: TierCritical, Label: "Final Deadline Hit!"}
	}

	if deadline != nil {
		diff := Midnight(deadline.UTC()).Sub(today)
		diffDays := int(math.Ceil(diff.Hours() / 24))

		switch {
		case diffDays < 0:
			return Classification{Tier: TierOverdue, Label: fmt.Sprintf("%d days overdue", -diffDays)}
		case diffDays == 0:
			return Classification{Tier: TierDueToday, Label: "Due Today"}
		default:
			return Classification{Tier: TierWarning, Label: fmt.Sprintf("%d days remaining", diffDays)}
		}
	}

	return Classification{Tier: TierWarning, Label: "No Deadline Set"}
}

// Bucket maps a tier to its alert-view filter bucket. Overdue and DueToday
// share the "overdue" bucket; "all" is the identity filter and never
// produced here.
func Bucket(t Tier) string {
	switch t {
	case TierCritical:
		return "critical"
	case TierOverdue, TierDueToday:
		return "overdue"
	default:
		return "warning"
	}
}

// Actionable is the alert-feed membership predicate: open status with a
// deadline to act on.
func Actionable(status string, deadline *time.Time) bool {
	if deadline == nil {
		return false
	}
	return status == StatusPending || status == StatusInProgress
}

// DeadlineBefore orders deadlines ascending with nil sorted last. A nil
// deadline means "no urgency", not "urgent since epoch".
func DeadlineBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
