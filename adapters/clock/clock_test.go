package clock_test

import (
	"testing"
	"time"

	"github.com/maylog/bonealign/adapters/clock"
	"github.com/maylog/bonealign/ports"
)

var _ ports.Clock = clock.Real{}
var _ ports.Clock = (*clock.Fake)(nil)

func TestFake(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := clock.NewFake(start)

	if !f.Now().Equal(start) {
		t.Errorf("Now = %v, want %v", f.Now(), start)
	}
	// Frozen until advanced.
	if !f.Now().Equal(start) {
		t.Error("fake clock drifted")
	}

	got := f.Advance(3 * time.Second)
	want := start.Add(3 * time.Second)
	if !got.Equal(want) {
		t.Errorf("Advance returned %v, want %v", got, want)
	}
	if !f.Now().Equal(want) {
		t.Errorf("Now after Advance = %v, want %v", f.Now(), want)
	}

	later := start.Add(time.Hour)
	f.Set(later)
	if !f.Now().Equal(later) {
		t.Errorf("Now after Set = %v, want %v", f.Now(), later)
	}
}

func TestReal(t *testing.T) {
	before := time.Now()
	got := clock.Real{}.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Real.Now() = %v outside [%v, %v]", got, before, after)
	}
}
