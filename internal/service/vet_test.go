package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"pawcare/internal/domain"
)

func newTestVetService(appointments *fakeAppointmentRepo) *VetServiceImpl {
	vets := &fakeVetRepo{profiles: map[int64]*domain.VetProfile{
		testVetID: {
			ID:            testVetID,
			UserID:        2,
			AvailableFrom: "09:00",
			AvailableTo:   "17:00",
			WorkingDays:   []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
	}}
	users := &fakeUserRepo{users: map[int64]*domain.User{}}

	return NewVetService(vets, users, appointments, nil, zap.NewNop())
}

func TestVetService_AvailableSlots_FullDay(t *testing.T) {
	svc := newTestVetService(newFakeAppointmentRepo())
	date := nextWeekday(time.Monday, 0).Format("2006-01-02")

	schedule, err := svc.AvailableSlots(context.Background(), testVetID, date)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if !schedule.Working {
		t.Fatalf("Monday must be a working day")
	}
	if len(schedule.Slots) != 8 {
		t.Fatalf("slots = %d, want 8", len(schedule.Slots))
	}
	for _, slot := range schedule.Slots {
		if !slot.Available {
			t.Errorf("slot %s must be available", slot.Time)
		}
	}
}

func TestVetService_AvailableSlots_BookedSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	at := nextWeekday(time.Monday, 10)
	repo.appointments[1] = &domain.Appointment{
		ID:              1,
		VetID:           testVetID,
		AppointmentDate: at,
		Status:          domain.AppointmentStatusConfirmed,
	}

	svc := newTestVetService(repo)

	schedule, err := svc.AvailableSlots(context.Background(), testVetID, at.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(schedule.Slots) != 8 {
		t.Fatalf("slots = %d, want 8", len(schedule.Slots))
	}
	for _, slot := range schedule.Slots {
		if slot.Time == "10:00" && slot.Available {
			t.Errorf("slot 10:00 must be booked")
		}
		if slot.Time != "10:00" && !slot.Available {
			t.Errorf("slot %s must be available", slot.Time)
		}
	}
}

func TestVetService_AvailableSlots_DayOff(t *testing.T) {
	svc := newTestVetService(newFakeAppointmentRepo())
	date := nextWeekday(time.Saturday, 0).Format("2006-01-02")

	schedule, err := svc.AvailableSlots(context.Background(), testVetID, date)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if schedule.Working {
		t.Errorf("Saturday must not be a working day")
	}
	if schedule.Message == "" {
		t.Errorf("day off must carry a message")
	}
	if len(schedule.Slots) != 0 {
		t.Errorf("slots = %d, want 0", len(schedule.Slots))
	}
}

func TestVetService_AvailableSlots_BadDate(t *testing.T) {
	svc := newTestVetService(newFakeAppointmentRepo())

	if _, err := svc.AvailableSlots(context.Background(), testVetID, "10.03.2025"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestVetService_AvailableSlots_HoursUnset(t *testing.T) {
	vets := &fakeVetRepo{profiles: map[int64]*domain.VetProfile{
		testVetID: {
			ID:          testVetID,
			UserID:      2,
			WorkingDays: []string{"monday"},
		},
	}}
	svc := NewVetService(vets, &fakeUserRepo{users: map[int64]*domain.User{}}, newFakeAppointmentRepo(), nil, zap.NewNop())

	schedule, err := svc.AvailableSlots(context.Background(), testVetID, nextWeekday(time.Monday, 0).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if schedule.Working {
		t.Errorf("schedule without hours must not be working")
	}
	if schedule.Message == "" {
		t.Errorf("unset hours must carry a message")
	}
	if len(schedule.Slots) != 0 {
		t.Errorf("slots = %d, want 0", len(schedule.Slots))
	}
}

func TestVetService_UploadProfilePhoto_WithoutStorage(t *testing.T) {
	svc := newTestVetService(newFakeAppointmentRepo())

	err := svc.UploadProfilePhoto(context.Background(), testVetID, []byte("jpeg"), "photo.jpg")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestVetService_DeleteProfilePhoto_WithoutStorage(t *testing.T) {
	vets := &fakeVetRepo{profiles: map[int64]*domain.VetProfile{
		testVetID: {
			ID:              testVetID,
			UserID:          2,
			ProfilePhotoURL: "https://bucket.s3.amazonaws.com/pets/vet.jpg",
		},
	}}
	svc := NewVetService(vets, &fakeUserRepo{users: map[int64]*domain.User{}}, newFakeAppointmentRepo(), nil, zap.NewNop())

	if err := svc.DeleteProfilePhoto(context.Background(), testVetID); err != nil {
		t.Fatalf("DeleteProfilePhoto: %v", err)
	}
}

func TestVetService_AvailableSlots_UnknownVet(t *testing.T) {
	svc := newTestVetService(newFakeAppointmentRepo())
	date := nextWeekday(time.Monday, 0).Format("2006-01-02")

	if _, err := svc.AvailableSlots(context.Background(), 999, date); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
