package main

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe+tag@city.gov.example"}
	invalid := []string{"", "no-at.example", "a@b", "spaces in@mail.com"}

	for _, e := range valid {
		if !isValidEmail(e) {
			t.Errorf("isValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if isValidEmail(e) {
			t.Errorf("isValidEmail(%q) = true, want false", e)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	if ok, _ := isValidPassword("short"); ok {
		t.Error("7-char password accepted")
	}
	if ok, _ := isValidPassword("longenough"); !ok {
		t.Error("valid password rejected")
	}
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	if ok, _ := isValidPassword(string(long)); ok {
		t.Error("overlong password accepted")
	}
}
