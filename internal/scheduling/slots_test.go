package scheduling

import (
	"testing"
	"time"
)

func TestGenerateSlots_FullDay(t *testing.T) {
	slots, err := GenerateSlots("09:00", "17:00", SlotStep, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", slots[0].Time)
	}
	if slots[7].Time != "16:00" {
		t.Fatalf("expected last slot 16:00, got %s", slots[7].Time)
	}
	for _, slot := range slots {
		if !slot.Available {
			t.Fatalf("slot %s must be available", slot.Time)
		}
	}
}

func TestGenerateSlots_BookedSlot(t *testing.T) {
	booked := map[string]bool{"10:00": true}

	slots, err := GenerateSlots("09:00", "17:00", SlotStep, booked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}

	for _, slot := range slots {
		if slot.Time == "10:00" {
			if slot.Available {
				t.Fatalf("slot 10:00 must be booked")
			}
			if slot.Reason == "" {
				t.Fatalf("booked slot must carry a reason")
			}
			continue
		}
		if !slot.Available {
			t.Fatalf("slot %s must be available", slot.Time)
		}
	}
}

func TestGenerateSlots_EndExclusive(t *testing.T) {
	slots, err := GenerateSlots("09:00", "10:00", SlotStep, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Time != "09:00" {
		t.Fatalf("expected single 09:00 slot, got %+v", slots)
	}
}

func TestGenerateSlots_BadFormat(t *testing.T) {
	if _, err := GenerateSlots("nine", "17:00", SlotStep, nil); err == nil {
		t.Fatalf("expected error for malformed start time")
	}
	if _, err := GenerateSlots("09:00", "later", SlotStep, nil); err == nil {
		t.Fatalf("expected error for malformed end time")
	}
}

func TestWorksOn(t *testing.T) {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !WorksOn(days, monday) {
		t.Fatalf("expected vet to work on Monday")
	}

	saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if WorksOn(days, saturday) {
		t.Fatalf("expected vet to be off on Saturday")
	}

	if WorksOn(nil, monday) {
		t.Fatalf("empty working days must never match")
	}

	if !WorksOn([]string{" Monday "}, monday) {
		t.Fatalf("day matching must ignore case and spaces")
	}
}

func TestInConflict_BufferWindow(t *testing.T) {
	booked := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		candidate time.Time
		want      bool
	}{
		{"same time", booked, true},
		{"half buffer before", booked.Add(-ConflictBuffer / 2), true},
		{"half buffer after", booked.Add(ConflictBuffer / 2), true},
		{"exactly on buffer edge", booked.Add(ConflictBuffer), true},
		{"twice the buffer before", booked.Add(-2 * ConflictBuffer), false},
		{"twice the buffer after", booked.Add(2 * ConflictBuffer), false},
		{"twenty minutes later", booked.Add(20 * time.Minute), true},
	}

	for _, tc := range cases {
		if got := InConflict(tc.candidate, booked); got != tc.want {
			t.Fatalf("%s: InConflict = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConflictWindow_Inclusive(t *testing.T) {
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	from, to := ConflictWindow(at)

	if !from.Equal(at.Add(-30 * time.Minute)) {
		t.Fatalf("window start = %v, want %v", from, at.Add(-30*time.Minute))
	}
	if !to.Equal(at.Add(30 * time.Minute)) {
		t.Fatalf("window end = %v, want %v", to, at.Add(30*time.Minute))
	}
}
