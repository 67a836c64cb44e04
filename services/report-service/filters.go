package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const dateLayout = "2006-01-02"

// buildReportFilter turns list query params into a conjunctive Mongo
// filter. endDate is inclusive of that whole day.
func buildReportFilter(q url.Values) (bson.M, error) {
	filter := bson.M{}

	if category := q.Get("category"); category != "" {
		filter["category"] = category
	}
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}

	created := bson.M{}
	if s := q.Get("startDate"); s != "" {
		start, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", s)
		}
		created["$gte"] = start
	}
	if s := q.Get("endDate"); s != "" {
		end, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", s)
		}
		created["$lt"] = end.AddDate(0, 0, 1)
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	return filter, nil
}

// parseDeadlineValue interprets one deadline body value: JSON null (or an
// empty string) clears the field, otherwise a date or RFC3339 timestamp
// sets it.
func parseDeadlineValue(raw json.RawMessage) (time.Time, bool, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false, fmt.Errorf("expected a date string or null")
	}
	if s == nil || *s == "" {
		return time.Time{}, true, nil
	}

	if t, err := time.Parse(dateLayout, *s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", *s)
}
