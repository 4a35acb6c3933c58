package domain

import (
	"testing"
	"time"
)

func TestUserInsightStale(t *testing.T) {
	summarized := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expires := summarized.Add(24 * time.Hour)
	ui := &UserInsight{
		EventLastUpdated: summarized,
		ExpiresAt:        expires,
	}

	if ui.Stale(summarized, expires.Add(-time.Second)) {
		t.Fatalf("fresh row before expiry reported stale")
	}
	if !ui.Stale(summarized, expires) {
		t.Fatalf("row at the expiry instant must be stale")
	}
	if !ui.Stale(summarized, expires.Add(time.Second)) {
		t.Fatalf("row past expiry must be stale")
	}
	if !ui.Stale(summarized.Add(time.Minute), expires.Add(-time.Hour)) {
		t.Fatalf("row behind the event's summary stamp must be stale")
	}
}
