package domain

import (
	"errors"
	"testing"
)

func TestParseAppointmentStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "rescheduled", "cancelled", "completed", "rejected"} {
		status, err := ParseAppointmentStatus(s)
		if err != nil {
			t.Errorf("ParseAppointmentStatus(%q): %v", s, err)
		}
		if string(status) != s {
			t.Errorf("ParseAppointmentStatus(%q) = %q", s, status)
		}
	}

	for _, s := range []string{"", "PENDING", "done", "Confirmed"} {
		if _, err := ParseAppointmentStatus(s); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseAppointmentStatus(%q) error = %v, want ErrValidation", s, err)
		}
	}
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusRejected, true},
		{AppointmentStatusPending, AppointmentStatusRescheduled, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},

		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusRescheduled, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusRejected, false},
		{AppointmentStatusConfirmed, AppointmentStatusConfirmed, false},

		{AppointmentStatusRescheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusRescheduled, AppointmentStatusRescheduled, true},
		{AppointmentStatusRescheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusRescheduled, AppointmentStatusRejected, false},
		{AppointmentStatusRescheduled, AppointmentStatusCompleted, false},

		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
		{AppointmentStatusCancelled, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusRejected, AppointmentStatusRescheduled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAppointmentStatus_IsActive(t *testing.T) {
	active := []AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusRescheduled, AppointmentStatusCompleted}
	for _, s := range active {
		if !s.IsActive() {
			t.Errorf("%s.IsActive() = false, want true", s)
		}
	}

	inactive := []AppointmentStatus{AppointmentStatusCancelled, AppointmentStatusRejected}
	for _, s := range inactive {
		if s.IsActive() {
			t.Errorf("%s.IsActive() = true, want false", s)
		}
	}
}
