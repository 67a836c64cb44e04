package main

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildReportFilterConjunctive(t *testing.T) {
	q := url.Values{}
	q.Set("category", "pothole")
	q.Set("status", "Pending")
	q.Set("startDate", "2025-01-01")
	q.Set("endDate", "2025-01-31")

	filter, err := buildReportFilter(q)
	if err != nil {
		t.Fatalf("buildReportFilter: %v", err)
	}

	if filter["category"] != "pothole" || filter["status"] != "Pending" {
		t.Errorf("scalar filters wrong: %v", filter)
	}

	created, ok := filter["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at filter missing: %v", filter)
	}
	gte := created["$gte"].(time.Time)
	lt := created["$lt"].(time.Time)
	if !gte.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("startDate bound = %v", gte)
	}
	// endDate is inclusive of the whole day, so the upper bound is the
	// start of the following day.
	if !lt.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("endDate bound = %v", lt)
	}
}

func TestBuildReportFilterEmpty(t *testing.T) {
	filter, err := buildReportFilter(url.Values{})
	if err != nil {
		t.Fatalf("buildReportFilter: %v", err)
	}
	if len(filter) != 0 {
		t.Errorf("empty query should build empty filter, got %v", filter)
	}
}

func TestBuildReportFilterRejectsBadDates(t *testing.T) {
	for _, key := range []string{"startDate", "endDate"} {
		q := url.Values{}
		q.Set(key, "31-01-2025")
		if _, err := buildReportFilter(q); err == nil {
			t.Errorf("bad %s accepted", key)
		}
	}
}

func TestParseDeadlineValue(t *testing.T) {
	when, clear, err := parseDeadlineValue(json.RawMessage(`"2099-01-01"`))
	if err != nil || clear {
		t.Fatalf("date parse failed: %v clear=%v", err, clear)
	}
	if !when.Equal(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parsed %v", when)
	}

	if _, clear, err := parseDeadlineValue(json.RawMessage(`null`)); err != nil || !clear {
		t.Errorf("null should clear: err=%v clear=%v", err, clear)
	}
	if _, clear, err := parseDeadlineValue(json.RawMessage(`""`)); err != nil || !clear {
		t.Errorf("empty string should clear: err=%v clear=%v", err, clear)
	}

	if _, _, err := parseDeadlineValue(json.RawMessage(`"soon"`)); err == nil {
		t.Error("garbage date accepted")
	}
	if _, _, err := parseDeadlineValue(json.RawMessage(`42`)); err == nil {
		t.Error("numeric deadline accepted")
	}
}
