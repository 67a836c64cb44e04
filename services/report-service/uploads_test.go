package main

import (
	"testing"
	"time"
)

func TestFormDeadline(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *time.Time
		wantErr bool
	}{
		{"absent", "", nil, false},
		{"blank", "   ", nil, false},
		{"date", "2025-07-01", timePtr(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)), false},
		{"timestamp", "2025-07-01T09:30:00Z", timePtr(time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)), false},
		{"mistyped date", "2025-7-1", nil, true},
		{"garbage", "next tuesday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formDeadline(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("formDeadline(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("formDeadline(%q) = %v, want %v", tt.value, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("formDeadline(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
