package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pawcare/internal/domain"
)

type Repositories struct {
	User          UserRepository
	Auth          AuthRepository
	Vet           VetRepository
	Pet           PetRepository
	Appointment   AppointmentRepository
	MedicalRecord MedicalRecordRepository
	Gallery       GalleryRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Auth:          NewAuthRepository(db),
		Vet:           NewVetRepository(db),
		Pet:           NewPetRepository(db),
		Appointment:   NewAppointmentRepository(db),
		MedicalRecord: NewMedicalRecordRepository(db),
		Gallery:       NewGalleryRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type VetRepository interface {
	Create(ctx context.Context, userID int64, profile domain.CreateVetProfileDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.VetProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.VetProfile, error)
	Update(ctx context.Context, id int64, profile domain.UpdateVetProfileDTO) error
	UpdateWorkingHours(ctx context.Context, id int64, hours domain.UpdateWorkingHoursDTO) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, specialty *string, limit, offset int) ([]domain.VetProfile, error)
}

type PetRepository interface {
	Create(ctx context.Context, ownerID int64, pet domain.CreatePetDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Pet, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Pet, error)
	Update(ctx context.Context, id int64, pet domain.UpdatePetDTO) error
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Pet, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, ownerID int64, appointment domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	Complete(ctx context.Context, id int64, outcome string) error
	Reschedule(ctx context.Context, id int64, newDate time.Time) error
	SetVetNotes(ctx context.Context, id int64, notes string) error

	// CountActiveInWindow считает активные записи ветеринара в окне [from, to] включительно.
	// excludeID исключает собственную запись при переносе; 0 — ничего не исключать.
	CountActiveInWindow(ctx context.Context, vetID int64, from, to time.Time, excludeID int64) (int, error)

	// BookedTimes возвращает множество времен HH:MM подтвержденных записей ветеринара за дату.
	BookedTimes(ctx context.Context, vetID int64, date time.Time) (map[string]bool, error)

	Stats(ctx context.Context, vetID int64) (*domain.AppointmentStats, error)
	CompleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, vetID int64, record domain.CreateMedicalRecordDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id int64, record domain.UpdateMedicalRecordDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, error)
	CountByFilter(ctx context.Context, filter domain.MedicalRecordFilter) (int, error)
}

type GalleryRepository interface {
	Add(ctx context.Context, petID int64, url, caption string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error)
	Delete(ctx context.Context, id int64) error
	ListByPet(ctx context.Context, petID int64) ([]domain.GalleryImage, error)
}
