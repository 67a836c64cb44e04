package main

import (
	"testing"
	"time"

	"civicsync/pkg/alerts"

	"go.mongodb.org/mongo-driver/bson"
)

// Every update document must carry the version bump; observers rely on it
// to discard stale broadcast rows.
func requireVersionInc(t *testing.T, update bson.M) {
	t.Helper()
	inc, ok := update["$inc"].(bson.M)
	if !ok {
		t.Fatalf("update %v carries no $inc", update)
	}
	if inc["version"] != 1 {
		t.Fatalf("version increment = %v, want 1", inc["version"])
	}
}

func TestBuildStatusUpdate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		status         string
		wantResolvedAt bool
	}{
		{alerts.StatusPending, false},
		{alerts.StatusInProgress, false},
		{alerts.StatusResolved, true},
		{alerts.StatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			update := buildStatusUpdate(tt.status, now)
			requireVersionInc(t, update)

			set := update["$set"].(bson.M)
			if set["status"] != tt.status {
				t.Errorf("$set status = %v, want %q", set["status"], tt.status)
			}

			if tt.wantResolvedAt {
				if set["resolved_at"] != now {
					t.Errorf("$set resolved_at = %v, want %v", set["resolved_at"], now)
				}
				if _, unsets := update["$unset"]; unsets {
					t.Error("resolved status must not also $unset resolved_at")
				}
			} else {
				if _, stamped := set["resolved_at"]; stamped {
					t.Errorf("non-resolved status stamped resolved_at: %v", set)
				}
				unset, ok := update["$unset"].(bson.M)
				if !ok {
					t.Fatal("non-resolved status must clear resolved_at")
				}
				if _, cleared := unset["resolved_at"]; !cleared {
					t.Errorf("$unset %v misses resolved_at", unset)
				}
			}
		})
	}
}

func TestBuildDeadlineUpdate(t *testing.T) {
	when := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		set   bson.M
		unset bson.M
	}{
		{"set only", bson.M{"deadline": when}, bson.M{}},
		{"clear only", bson.M{}, bson.M{"final_deadline": ""}},
		{"set one clear other", bson.M{"deadline": when}, bson.M{"final_deadline": ""}},
		{"neither", bson.M{}, bson.M{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := buildDeadlineUpdate(tt.set, tt.unset)
			requireVersionInc(t, update)

			if len(tt.set) > 0 {
				if _, ok := update["$set"]; !ok {
					t.Error("$set missing")
				}
			} else if _, ok := update["$set"]; ok {
				t.Error("empty $set must be omitted")
			}

			if len(tt.unset) > 0 {
				if _, ok := update["$unset"]; !ok {
					t.Error("$unset missing")
				}
			} else if _, ok := update["$unset"]; ok {
				t.Error("empty $unset must be omitted")
			}
		})
	}
}
