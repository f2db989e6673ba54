package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pawcare/config"
	"pawcare/internal/domain"
	"pawcare/internal/repository"
	"pawcare/internal/storage"
	"pawcare/pkg/email"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Mailer      email.Sender
}

type Services struct {
	User          UserService
	Auth          AuthService
	Vet           VetService
	Pet           PetService
	Appointment   AppointmentService
	MedicalRecord MedicalRecordService
}

func NewServices(deps Deps) *Services {
	return &Services{
		User:          NewUserService(deps.Repos.User, deps.Logger),
		Auth:          NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Vet:           NewVetService(deps.Repos.Vet, deps.Repos.User, deps.Repos.Appointment, deps.FileStorage, deps.Logger),
		Pet:           NewPetService(deps.Repos.Pet, deps.Repos.Gallery, deps.FileStorage, deps.Logger),
		Appointment:   NewAppointmentService(deps.Repos.Appointment, deps.Repos.Vet, deps.Repos.Pet, deps.Repos.User, deps.Mailer, deps.Logger),
		MedicalRecord: NewMedicalRecordService(deps.Repos.MedicalRecord, deps.Repos.Pet, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type VetService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateVetProfileDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.VetProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.VetProfile, error)
	Update(ctx context.Context, id int64, dto domain.UpdateVetProfileDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, specialty *string, limit, offset int) ([]domain.VetProfile, error)

	GetWorkingHours(ctx context.Context, id int64) (*domain.WorkingHours, error)
	UpdateWorkingHours(ctx context.Context, id int64, dto domain.UpdateWorkingHoursDTO) error

	// AvailableSlots возвращает сетку слотов ветеринара на дату (формат YYYY-MM-DD).
	AvailableSlots(ctx context.Context, id int64, date string) (*domain.DaySchedule, error)

	UploadProfilePhoto(ctx context.Context, id int64, photo []byte, filename string) error
	DeleteProfilePhoto(ctx context.Context, id int64) error
}

type PetService interface {
	Create(ctx context.Context, ownerID int64, dto domain.CreatePetDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Pet, error)
	Update(ctx context.Context, id, ownerID int64, dto domain.UpdatePetDTO) error
	Delete(ctx context.Context, id, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Pet, error)

	UploadPhoto(ctx context.Context, id, ownerID int64, photo []byte, filename string) error
	DeletePhoto(ctx context.Context, id, ownerID int64) error

	AddGalleryImage(ctx context.Context, petID, ownerID int64, photo []byte, filename, caption string) (int64, error)
	GetGallery(ctx context.Context, petID int64) ([]domain.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, imageID, ownerID int64) error
}

type AppointmentService interface {
	Create(ctx context.Context, ownerID int64, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)

	Confirm(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, reason string) error
	Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error
	Complete(ctx context.Context, id int64, dto domain.CompleteAppointmentDTO) error
	SetVetNotes(ctx context.Context, id int64, notes string) error

	// HasConflict проверяет, занято ли время у ветеринара с учетом буфера.
	HasConflict(ctx context.Context, vetID int64, at string) (bool, error)

	Stats(ctx context.Context, vetID int64) (*domain.AppointmentStats, error)

	// CompleteExpired закрывает подтвержденные записи, начавшиеся более двух часов назад.
	CompleteExpired(ctx context.Context) (int64, error)
}

type MedicalRecordService interface {
	Create(ctx context.Context, vetID int64, dto domain.CreateMedicalRecordDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id int64, dto domain.UpdateMedicalRecordDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, int, error)
}

// errStorageDisabled возвращается из операций с файлами, когда сервер
// запущен без сконфигурированного файлового хранилища.
var errStorageDisabled = fmt.Errorf("загрузка файлов недоступна: хранилище не настроено: %w", domain.ErrValidation)

// isDomainError сообщает, что ошибку нужно отдать клиенту как есть,
// не подменяя ее общим сообщением.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrForbidden)
}

func PointerTo[T any](v T) *T {
	return &v
}
