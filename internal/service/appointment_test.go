package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"pawcare/internal/domain"
	"pawcare/internal/scheduling"
)

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	nextID       int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment), nextID: 1}
}

func (r *fakeAppointmentRepo) countActive(vetID int64, from, to time.Time, excludeID int64) int {
	count := 0
	for _, a := range r.appointments {
		if a.VetID != vetID || a.ID == excludeID || !a.Status.IsActive() {
			continue
		}
		if !a.AppointmentDate.Before(from) && !a.AppointmentDate.After(to) {
			count++
		}
	}
	return count
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, ownerID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	from, to := scheduling.ConflictWindow(dto.AppointmentDate)
	if r.countActive(dto.VetID, from, to, 0) > 0 {
		return 0, domain.ErrConflict
	}

	id := r.nextID
	r.nextID++
	r.appointments[id] = &domain.Appointment{
		ID:              id,
		OwnerID:         ownerID,
		VetID:           dto.VetID,
		PetID:           dto.PetID,
		Type:            dto.Type,
		AppointmentDate: dto.AppointmentDate,
		Status:          domain.AppointmentStatusPending,
		Reason:          dto.Reason,
	}
	return id, nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range r.appointments {
		if filter.VetID != nil && a.VetID != *filter.VetID {
			continue
		}
		if filter.OwnerID != nil && a.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, _ := r.List(ctx, filter)
	return len(list), nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = domain.AppointmentStatusCancelled
	a.CancellationReason = reason
	return nil
}

func (r *fakeAppointmentRepo) Complete(ctx context.Context, id int64, outcome string) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = domain.AppointmentStatusCompleted
	a.Outcome = outcome
	return nil
}

func (r *fakeAppointmentRepo) Reschedule(ctx context.Context, id int64, newDate time.Time) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	from, to := scheduling.ConflictWindow(newDate)
	if r.countActive(a.VetID, from, to, id) > 0 {
		return domain.ErrConflict
	}
	a.AppointmentDate = newDate
	a.Status = domain.AppointmentStatusRescheduled
	return nil
}

func (r *fakeAppointmentRepo) SetVetNotes(ctx context.Context, id int64, notes string) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.VetNotes = notes
	return nil
}

func (r *fakeAppointmentRepo) CountActiveInWindow(ctx context.Context, vetID int64, from, to time.Time, excludeID int64) (int, error) {
	return r.countActive(vetID, from, to, excludeID), nil
}

func (r *fakeAppointmentRepo) BookedTimes(ctx context.Context, vetID int64, date time.Time) (map[string]bool, error) {
	booked := make(map[string]bool)
	for _, a := range r.appointments {
		if a.VetID == vetID && a.Status == domain.AppointmentStatusConfirmed &&
			a.AppointmentDate.Format("2006-01-02") == date.Format("2006-01-02") {
			booked[a.AppointmentDate.Format("15:04")] = true
		}
	}
	return booked, nil
}

func (r *fakeAppointmentRepo) Stats(ctx context.Context, vetID int64) (*domain.AppointmentStats, error) {
	stats := &domain.AppointmentStats{}
	for _, a := range r.appointments {
		if a.VetID != vetID {
			continue
		}
		stats.Total++
		switch a.Status {
		case domain.AppointmentStatusPending:
			stats.Pending++
		case domain.AppointmentStatusConfirmed:
			stats.Confirmed++
		case domain.AppointmentStatusCompleted:
			stats.Completed++
		case domain.AppointmentStatusCancelled:
			stats.Cancelled++
		case domain.AppointmentStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

func (r *fakeAppointmentRepo) CompleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, a := range r.appointments {
		if a.Status == domain.AppointmentStatusConfirmed && a.AppointmentDate.Before(cutoff) {
			a.Status = domain.AppointmentStatusCompleted
			n++
		}
	}
	return n, nil
}

type fakeVetRepo struct {
	profiles map[int64]*domain.VetProfile
}

func (r *fakeVetRepo) Create(ctx context.Context, userID int64, dto domain.CreateVetProfileDTO) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeVetRepo) GetByID(ctx context.Context, id int64) (*domain.VetProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeVetRepo) GetByUserID(ctx context.Context, userID int64) (*domain.VetProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeVetRepo) Update(ctx context.Context, id int64, dto domain.UpdateVetProfileDTO) error {
	return nil
}

func (r *fakeVetRepo) UpdateWorkingHours(ctx context.Context, id int64, dto domain.UpdateWorkingHoursDTO) error {
	return nil
}

func (r *fakeVetRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return nil
}

func (r *fakeVetRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeVetRepo) List(ctx context.Context, specialty *string, limit, offset int) ([]domain.VetProfile, error) {
	return nil, nil
}

type fakePetRepo struct {
	pets map[int64]*domain.Pet
}

func (r *fakePetRepo) Create(ctx context.Context, ownerID int64, dto domain.CreatePetDTO) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePetRepo) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePetRepo) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Pet, error) {
	p, ok := r.pets[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePetRepo) Update(ctx context.Context, id int64, dto domain.UpdatePetDTO) error {
	return nil
}
func (r *fakePetRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error { return nil }
func (r *fakePetRepo) Delete(ctx context.Context, id int64) error                       { return nil }

func (r *fakePetRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Pet, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return nil, nil
}

const (
	testOwnerID = int64(10)
	testVetID   = int64(1)
	testPetID   = int64(5)
)

func newTestService(repo *fakeAppointmentRepo) *AppointmentServiceImpl {
	vets := &fakeVetRepo{profiles: map[int64]*domain.VetProfile{
		testVetID: {
			ID:            testVetID,
			UserID:        2,
			AvailableFrom: "09:00",
			AvailableTo:   "17:00",
			WorkingDays:   []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
	}}
	pets := &fakePetRepo{pets: map[int64]*domain.Pet{
		testPetID: {ID: testPetID, OwnerID: testOwnerID, Name: "Барсик"},
	}}
	users := &fakeUserRepo{users: map[int64]*domain.User{
		testOwnerID: {ID: testOwnerID, Email: "owner@example.com"},
	}}

	return NewAppointmentService(repo, vets, pets, users, nil, zap.NewNop())
}

// nextWeekday возвращает ближайший будущий день недели с заданным временем.
func nextWeekday(weekday time.Weekday, hour int) time.Time {
	t := time.Now().AddDate(0, 0, 1)
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.Local)
}

func createDTO(at time.Time) domain.CreateAppointmentDTO {
	return domain.CreateAppointmentDTO{
		VetID:           testVetID,
		PetID:           testPetID,
		Type:            domain.AppointmentTypeCheckup,
		AppointmentDate: at,
	}
}

func TestAppointmentService_Create(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	id, err := svc.Create(context.Background(), testOwnerID, createDTO(nextWeekday(time.Monday, 10)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	appointment, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if appointment.Status != domain.AppointmentStatusPending {
		t.Errorf("new appointment status = %s, want pending", appointment.Status)
	}
}

func TestAppointmentService_Create_Conflict(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	at := nextWeekday(time.Monday, 10)

	if _, err := svc.Create(context.Background(), testOwnerID, createDTO(at)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := svc.Create(context.Background(), testOwnerID, createDTO(at))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second Create error = %v, want ErrConflict", err)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("appointments stored = %d, want 1 (conflicting create must not persist)", len(repo.appointments))
	}
}

func TestAppointmentService_Create_CancelledFreesSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	at := nextWeekday(time.Monday, 11)

	id, err := svc.Create(context.Background(), testOwnerID, createDTO(at))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Cancel(context.Background(), id, "передумал"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svc.Create(context.Background(), testOwnerID, createDTO(at)); err != nil {
		t.Fatalf("Create after cancel: %v, отмененная запись не должна занимать слот", err)
	}
}

func TestAppointmentService_Create_PetNotOwned(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), int64(999), createDTO(nextWeekday(time.Monday, 10)))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Create error = %v, want ErrForbidden", err)
	}
}

func TestAppointmentService_Create_OutsideSchedule(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	cases := []struct {
		name string
		at   time.Time
	}{
		{"non working day", nextWeekday(time.Saturday, 10)},
		{"before opening", nextWeekday(time.Monday, 8)},
		{"at closing", nextWeekday(time.Monday, 17)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), testOwnerID, createDTO(tc.at))
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAppointmentService_Reschedule_Conflict(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	first := nextWeekday(time.Monday, 10)
	second := nextWeekday(time.Monday, 14)

	if _, err := svc.Create(context.Background(), testOwnerID, createDTO(first)); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	id, err := svc.Create(context.Background(), testOwnerID, createDTO(second))
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	err = svc.Reschedule(context.Background(), id, domain.RescheduleAppointmentDTO{AppointmentDate: first})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Reschedule error = %v, want ErrConflict", err)
	}

	appointment, _ := repo.GetByID(context.Background(), id)
	if !appointment.AppointmentDate.Equal(second) {
		t.Errorf("appointment date changed to %v after failed reschedule, want %v", appointment.AppointmentDate, second)
	}
}

func TestAppointmentService_Reschedule(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	newDate := nextWeekday(time.Tuesday, 12)

	id, err := svc.Create(context.Background(), testOwnerID, createDTO(nextWeekday(time.Monday, 10)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Reschedule(context.Background(), id, domain.RescheduleAppointmentDTO{AppointmentDate: newDate}); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	appointment, _ := repo.GetByID(context.Background(), id)
	if appointment.Status != domain.AppointmentStatusRescheduled {
		t.Errorf("status = %s, want rescheduled", appointment.Status)
	}
	if !appointment.AppointmentDate.Equal(newDate) {
		t.Errorf("date = %v, want %v", appointment.AppointmentDate, newDate)
	}
}

func TestAppointmentService_ConfirmReject(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	id, err := svc.Create(context.Background(), testOwnerID, createDTO(nextWeekday(time.Monday, 10)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Confirm(context.Background(), id); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// подтвержденную запись нельзя отклонить
	if err := svc.Reject(context.Background(), id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Reject after confirm error = %v, want ErrInvalidTransition", err)
	}
}

func TestAppointmentService_Cancel_Terminal(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	id, err := svc.Create(context.Background(), testOwnerID, createDTO(nextWeekday(time.Monday, 10)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Cancel(context.Background(), id, ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if err := svc.Cancel(context.Background(), id, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second Cancel error = %v, want ErrInvalidTransition", err)
	}
}

func TestAppointmentService_Complete(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	// прошедший подтвержденный прием
	repo.appointments[1] = &domain.Appointment{
		ID:              1,
		VetID:           testVetID,
		OwnerID:         testOwnerID,
		AppointmentDate: time.Now().Add(-time.Hour),
		Status:          domain.AppointmentStatusConfirmed,
	}
	repo.nextID = 2

	if err := svc.Complete(context.Background(), 1, domain.CompleteAppointmentDTO{Outcome: "здоров"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	appointment, _ := repo.GetByID(context.Background(), 1)
	if appointment.Status != domain.AppointmentStatusCompleted {
		t.Errorf("status = %s, want completed", appointment.Status)
	}
	if appointment.Outcome != "здоров" {
		t.Errorf("outcome = %q, want %q", appointment.Outcome, "здоров")
	}
}

func TestAppointmentService_Complete_Future(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	repo.appointments[1] = &domain.Appointment{
		ID:              1,
		VetID:           testVetID,
		OwnerID:         testOwnerID,
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Status:          domain.AppointmentStatusConfirmed,
	}
	repo.nextID = 2

	err := svc.Complete(context.Background(), 1, domain.CompleteAppointmentDTO{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Complete error = %v, want ErrValidation", err)
	}
}

func TestAppointmentService_Complete_NotConfirmed(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	repo.appointments[1] = &domain.Appointment{
		ID:              1,
		VetID:           testVetID,
		OwnerID:         testOwnerID,
		AppointmentDate: time.Now().Add(-time.Hour),
		Status:          domain.AppointmentStatusPending,
	}
	repo.nextID = 2

	err := svc.Complete(context.Background(), 1, domain.CompleteAppointmentDTO{})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Complete error = %v, want ErrInvalidTransition", err)
	}
}

func TestAppointmentService_CompleteExpired(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)

	repo.appointments[1] = &domain.Appointment{
		ID: 1, VetID: testVetID, AppointmentDate: time.Now().Add(-3 * time.Hour),
		Status: domain.AppointmentStatusConfirmed,
	}
	repo.appointments[2] = &domain.Appointment{
		ID: 2, VetID: testVetID, AppointmentDate: time.Now().Add(-time.Hour),
		Status: domain.AppointmentStatusConfirmed,
	}
	repo.appointments[3] = &domain.Appointment{
		ID: 3, VetID: testVetID, AppointmentDate: time.Now().Add(-3 * time.Hour),
		Status: domain.AppointmentStatusPending,
	}
	repo.nextID = 4

	n, err := svc.CompleteExpired(context.Background())
	if err != nil {
		t.Fatalf("CompleteExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("completed = %d, want 1", n)
	}

	if repo.appointments[1].Status != domain.AppointmentStatusCompleted {
		t.Errorf("old confirmed appointment status = %s, want completed", repo.appointments[1].Status)
	}
	if repo.appointments[2].Status != domain.AppointmentStatusConfirmed {
		t.Errorf("recent appointment status = %s, want confirmed", repo.appointments[2].Status)
	}
	if repo.appointments[3].Status != domain.AppointmentStatusPending {
		t.Errorf("pending appointment status = %s, want pending", repo.appointments[3].Status)
	}
}

func TestAppointmentService_HasConflict(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	at := nextWeekday(time.Monday, 10)

	if _, err := svc.Create(context.Background(), testOwnerID, createDTO(at)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	busy, err := svc.HasConflict(context.Background(), testVetID, at.Add(20*time.Minute).Format(time.RFC3339))
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if !busy {
		t.Error("time within buffer window reported as free")
	}

	free, err := svc.HasConflict(context.Background(), testVetID, at.Add(2*time.Hour).Format(time.RFC3339))
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if free {
		t.Error("time outside buffer window reported as busy")
	}
}
