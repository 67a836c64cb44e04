package main

import "testing"

func TestStatusKey(t *testing.T) {
	tests := map[string]string{
		"Pending":     "pending",
		"In Progress": "in_progress",
		"Resolved":    "resolved",
		"Rejected":    "rejected",
	}
	for in, want := range tests {
		if got := statusKey(in); got != want {
			t.Errorf("statusKey(%q) = %q, want %q", in, got, want)
		}
	}
}
