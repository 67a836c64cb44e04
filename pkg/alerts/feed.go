package alerts

import (
	"sort"
	"time"
)

// Entry is the slice of a report the feed tracks. ID is the store-assigned
// report id; the deadline fields drive ordering and classification.
type Entry struct {
	ID            string
	Status        string
	Deadline      *time.Time
	FinalDeadline *time.Time
}

// Feed is an observer-side collection of actionable reports kept in
// deadline-ascending order. It implements the broadcast upsert contract:
// a received row replaces an existing entry by id, joins the feed if it is
// actionable, or evicts any stale local copy otherwise.
type Feed struct {
	entries []Entry
}

// Apply folds one broadcast row into the feed and reports whether the
// entry is present afterwards.
func (f *Feed) Apply(e Entry) bool {
	idx := -1
	for i := range f.entries {
		if f.entries[i].ID == e.ID {
			idx = i
			break
		}
	}

	if !Actionable(e.Status, e.Deadline) {
		if idx >= 0 {
			f.entries = append(f.entries[:idx], f.entries[idx+1:]...)
		}
		return false
	}

	if idx >= 0 {
		f.entries[idx] = e
	} else {
		f.entries = append(f.entries, e)
	}
	f.sort()
	return true
}

// Entries returns the feed in deadline-ascending order, soonest first.
func (f *Feed) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Filtered returns the entries whose classification falls in the given
// bucket; "all" returns everything.
func (f *Feed) Filtered(bucket string, today time.Time) []Entry {
	if bucket == "all" {
		return f.Entries()
	}
	var out []Entry
	for _, e := range f.entries {
		c := Classify(e.Deadline, e.FinalDeadline, today)
		if Bucket(c.Tier) == bucket {
			out = append(out, e)
		}
	}
	return out
}

func (f *Feed) Len() int { return len(f.entries) }

func (f *Feed) sort() {
	sort.SliceStable(f.entries, func(i, j int) bool {
		return DeadlineBefore(f.entries[i].Deadline, f.entries[j].Deadline)
	})
}
