package validator

import "testing"

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:00", "17:30", "23:59"}
	for _, v := range valid {
		if !ValidateTimeOfDay(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "24:00", "9:00", "09:60", "09-00", "morning"}
	for _, v := range invalid {
		if ValidateTimeOfDay(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	if !ValidatePhone("+7 (900) 123-45-67") {
		t.Fatalf("expected formatted phone to be valid")
	}
	if ValidatePhone("12345") {
		t.Fatalf("expected short phone to be invalid")
	}
}
