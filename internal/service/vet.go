package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pawcare/internal/domain"
	"pawcare/internal/repository"
	"pawcare/internal/scheduling"
	"pawcare/internal/storage"
	"pawcare/pkg/validator"
)

type VetServiceImpl struct {
	repo        repository.VetRepository
	userRepo    repository.UserRepository
	apptRepo    repository.AppointmentRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewVetService(
	repo repository.VetRepository,
	userRepo repository.UserRepository,
	apptRepo repository.AppointmentRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *VetServiceImpl {
	return &VetServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		apptRepo:    apptRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

var defaultWorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

func (s *VetServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateVetProfileDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("пользователь не найден при создании профиля", zap.Int64("userID", userID), zap.Error(err))
		return 0, err
	}

	if user.Role != domain.UserRoleVet {
		return 0, fmt.Errorf("профиль ветеринара доступен только пользователям с ролью vet: %w", domain.ErrForbidden)
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return 0, fmt.Errorf("профиль ветеринара уже существует: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("ошибка проверки существующего профиля", zap.Error(err))
		return 0, err
	}

	if dto.AvailableFrom == "" {
		dto.AvailableFrom = "09:00"
	}
	if dto.AvailableTo == "" {
		dto.AvailableTo = "17:00"
	}
	if err := validateWorkingHours(dto.AvailableFrom, dto.AvailableTo); err != nil {
		return 0, err
	}
	if len(dto.WorkingDays) == 0 {
		dto.WorkingDays = defaultWorkingDays
	}

	id, err := s.repo.Create(ctx, userID, dto)
	if err != nil {
		s.logger.Error("ошибка создания профиля ветеринара", zap.Error(err))
		return 0, errors.New("ошибка при создании профиля ветеринара")
	}

	return id, nil
}

func validateWorkingHours(from, to string) error {
	if !validator.ValidateTimeOfDay(from) || !validator.ValidateTimeOfDay(to) {
		return fmt.Errorf("время приема должно быть в формате HH:MM: %w", domain.ErrValidation)
	}
	if from >= to {
		return fmt.Errorf("начало приема должно быть раньше окончания: %w", domain.ErrValidation)
	}
	return nil
}

func (s *VetServiceImpl) GetByID(ctx context.Context, id int64) (*domain.VetProfile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения профиля ветеринара", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return profile, nil
}

func (s *VetServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.VetProfile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения профиля ветеринара", zap.Int64("userID", userID), zap.Error(err))
		}
		return nil, err
	}
	return profile, nil
}

func (s *VetServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateVetProfileDTO) error {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка обновления профиля ветеринара", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *VetServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления профиля ветеринара", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *VetServiceImpl) List(ctx context.Context, specialty *string, limit, offset int) ([]domain.VetProfile, error) {
	profiles, err := s.repo.List(ctx, specialty, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка ветеринаров", zap.Error(err))
		return nil, errors.New("ошибка при получении списка ветеринаров")
	}
	return profiles, nil
}

func (s *VetServiceImpl) GetWorkingHours(ctx context.Context, id int64) (*domain.WorkingHours, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.WorkingHours{
		VetID:           profile.ID,
		ClinicName:      profile.ClinicName,
		ClinicAddress:   profile.ClinicAddress,
		ConsultationFee: profile.ConsultationFee,
		AvailableFrom:   profile.AvailableFrom,
		AvailableTo:     profile.AvailableTo,
		WorkingDays:     profile.WorkingDays,
	}, nil
}

func (s *VetServiceImpl) UpdateWorkingHours(ctx context.Context, id int64, dto domain.UpdateWorkingHoursDTO) error {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	from := profile.AvailableFrom
	to := profile.AvailableTo
	if dto.AvailableFrom != nil {
		from = *dto.AvailableFrom
	}
	if dto.AvailableTo != nil {
		to = *dto.AvailableTo
	}
	if err := validateWorkingHours(from, to); err != nil {
		return err
	}

	if err := s.repo.UpdateWorkingHours(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка обновления часов приема", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	return nil
}

// AvailableSlots строит сетку слотов ветеринара на дату. В нерабочий день
// возвращается пустая сетка с пояснением, занятые слоты помечаются недоступными.
func (s *VetServiceImpl) AvailableSlots(ctx context.Context, id int64, date string) (*domain.DaySchedule, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %w", domain.ErrValidation)
	}

	if profile.AvailableFrom == "" || profile.AvailableTo == "" {
		return &domain.DaySchedule{
			Date:    date,
			Working: false,
			Message: "часы приема не заданы",
			Slots:   []domain.TimeSlot{},
		}, nil
	}

	if !scheduling.WorksOn(profile.WorkingDays, day) {
		return &domain.DaySchedule{
			Date:    date,
			Working: false,
			Message: "ветеринар не принимает в этот день",
			Slots:   []domain.TimeSlot{},
		}, nil
	}

	booked, err := s.apptRepo.BookedTimes(ctx, id, day)
	if err != nil {
		s.logger.Error("ошибка получения занятых слотов", zap.Int64("vetID", id), zap.Error(err))
		return nil, errors.New("ошибка при получении слотов")
	}

	slots, err := scheduling.GenerateSlots(profile.AvailableFrom, profile.AvailableTo, scheduling.SlotStep, booked)
	if err != nil {
		s.logger.Error("ошибка генерации слотов", zap.Int64("vetID", id), zap.Error(err))
		return nil, errors.New("ошибка при получении слотов")
	}

	return &domain.DaySchedule{
		Date:    date,
		Working: true,
		Slots:   slots,
	}, nil
}

// removeFile удаляет файл из хранилища, молча пропуская вызов,
// если хранилище не настроено. Ошибка удаления не прерывает операцию.
func (s *VetServiceImpl) removeFile(ctx context.Context, url string) {
	if s.fileStorage == nil || url == "" {
		return
	}
	if err := s.fileStorage.DeleteFile(ctx, url); err != nil {
		s.logger.Warn("ошибка удаления фото из хранилища", zap.Error(err))
	}
}

func (s *VetServiceImpl) UploadProfilePhoto(ctx context.Context, id int64, photo []byte, filename string) error {
	if s.fileStorage == nil {
		return errStorageDisabled
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeFile(ctx, profile.ProfilePhotoURL)

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото профиля", zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	if err := s.repo.UpdateProfilePhoto(ctx, id, url); err != nil {
		s.logger.Error("ошибка сохранения фото профиля", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	return nil
}

func (s *VetServiceImpl) DeleteProfilePhoto(ctx context.Context, id int64) error {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if profile.ProfilePhotoURL == "" {
		return nil
	}

	s.removeFile(ctx, profile.ProfilePhotoURL)

	if err := s.repo.UpdateProfilePhoto(ctx, id, ""); err != nil {
		s.logger.Error("ошибка очистки фото профиля", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	return nil
}
