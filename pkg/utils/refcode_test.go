package utils

import (
	"strings"
	"testing"
	"time"
)

func TestNewReferenceCode(t *testing.T) {
	code := NewReferenceCode("REQ")

	if !strings.HasPrefix(code, "REQ-") {
		t.Fatalf("code %q should start with the prefix", code)
	}

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("code %q should have three dash-separated parts", code)
	}
	if parts[1] != time.Now().Format("20060102") {
		t.Errorf("date part = %q, want today's date", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Errorf("suffix %q should be 4 characters", parts[2])
	}
	for _, r := range parts[2] {
		if strings.ContainsRune("01IO", r) {
			t.Errorf("suffix %q contains ambiguous character %q", parts[2], r)
		}
	}
}

func TestNewReferenceCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewReferenceCode("SVR")] = true
	}
	// Random 4-char suffixes over a 32-character alphabet; a run of 50
	// producing fewer than 45 distinct codes means the generator is broken.
	if len(seen) < 45 {
		t.Fatalf("only %d distinct codes in 50 draws", len(seen))
	}
}
