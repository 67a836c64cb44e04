package alerts

import (
	"testing"
	"time"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		deadline      *time.Time
		finalDeadline *time.Time
		wantTier      Tier
		wantLabel     string
	}{
		{"final deadline hit today", date("2025-06-20"), date("2025-06-15"), TierCritical, "Final Deadline Hit!"},
		{"final deadline past", nil, date("2025-06-01"), TierCritical, "Final Deadline Hit!"},
		{"final deadline wins over soft overdue", date("2025-06-01"), date("2025-06-10"), TierCritical, "Final Deadline Hit!"},
		{"final deadline in future falls through", date("2025-06-18"), date("2025-06-30"), TierWarning, "3 days remaining"},
		{"overdue", date("2025-06-10"), nil, TierOverdue, "5 days overdue"},
		{"due today", date("2025-06-15"), nil, TierDueToday, "Due Today"},
		{"remaining", date("2025-06-22"), nil, TierWarning, "7 days remaining"},
		{"no deadlines", nil, nil, TierWarning, "No Deadline Set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.deadline, tt.finalDeadline, today)
			if got.Tier != tt.wantTier || got.Label != tt.wantLabel {
				t.Errorf("Classify() = %v/%q, want %v/%q", got.Tier, got.Label, tt.wantTier, tt.wantLabel)
			}
		})
	}
}

func TestClassifyDayGranularity(t *testing.T) {
	// A deadline later the same day is still "Due Today", not "1 day
	// remaining": both sides truncate to midnight first.
	lateToday := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	now := time.Date(2025, 6, 15, 8, 5, 0, 0, time.UTC)

	got := Classify(&lateToday, nil, now)
	if got.Tier != TierDueToday {
		t.Fatalf("Classify(same day) tier = %v, want %v", got.Tier, TierDueToday)
	}
}

func TestClassifyMixedZones(t *testing.T) {
	// Stored deadlines are UTC midnights; the clock reading may come from
	// a host in any zone. The same UTC day must classify identically no
	// matter which zone the clock is expressed in.
	utcDeadline := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+5:30", 5*3600+1800),
		time.FixedZone("UTC-3", -3*3600),
	}

	for _, zone := range zones {
		// 10:00 local on a UTC-June-15 wall clock in every listed zone.
		now := time.Date(2025, 6, 15, 10, 0, 0, 0, zone)
		if got := Classify(&utcDeadline, nil, now); got.Tier != TierDueToday {
			t.Errorf("Classify in %v = %v (%q), want %v", zone, got.Tier, got.Label, TierDueToday)
		}
		if got := Classify(nil, &utcDeadline, now); got.Tier != TierCritical {
			t.Errorf("Classify final deadline in %v = %v, want %v", zone, got.Tier, TierCritical)
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	d := date("2025-06-20")
	f := date("2025-06-25")
	first := Classify(d, f, today)
	second := Classify(d, f, today)
	if first != second {
		t.Fatalf("Classify not idempotent: %v vs %v", first, second)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierCritical, "critical"},
		{TierOverdue, "overdue"},
		{TierDueToday, "overdue"},
		{TierWarning, "warning"},
	}
	for _, tt := range tests {
		if got := Bucket(tt.tier); got != tt.want {
			t.Errorf("Bucket(%v) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestActionable(t *testing.T) {
	deadline := date("2025-07-01")
	final := date("2025-07-10")

	// All 8 combinations of {Pending,Resolved} x deadline x final_deadline.
	// Only open status plus a non-null deadline is actionable; the final
	// deadline never matters for membership.
	tests := []struct {
		status   string
		deadline *time.Time
		final    *time.Time
		want     bool
	}{
		{StatusPending, deadline, final, true},
		{StatusPending, deadline, nil, true},
		{StatusPending, nil, final, false},
		{StatusPending, nil, nil, false},
		{StatusResolved, deadline, final, false},
		{StatusResolved, deadline, nil, false},
		{StatusResolved, nil, final, false},
		{StatusResolved, nil, nil, false},
	}
	for _, tt := range tests {
		if got := Actionable(tt.status, tt.deadline); got != tt.want {
			t.Errorf("Actionable(%q, deadline=%v) = %v, want %v", tt.status, tt.deadline, got, tt.want)
		}
	}

	if !Actionable(StatusInProgress, deadline) {
		t.Error("Actionable(In Progress with deadline) = false, want true")
	}
	if Actionable(StatusRejected, deadline) {
		t.Error("Actionable(Rejected with deadline) = true, want false")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusResolved, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "pending", "Done", "COMPLETED"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestDeadlineBeforeNullsLast(t *testing.T) {
	dated := date("2025-01-01")

	if !DeadlineBefore(dated, nil) {
		t.Error("dated deadline must sort before nil")
	}
	if DeadlineBefore(nil, dated) {
		t.Error("nil deadline must not sort before a dated one")
	}
	if DeadlineBefore(nil, nil) {
		t.Error("nil/nil must compare stable")
	}
}
