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
	"pawcare/pkg/email"
)

// completionGrace — через сколько после начала приема подтвержденная
// запись считается состоявшейся и закрывается автоматически.
const completionGrace = 2 * time.Hour

type AppointmentServiceImpl struct {
	repo     repository.AppointmentRepository
	vetRepo  repository.VetRepository
	petRepo  repository.PetRepository
	userRepo repository.UserRepository
	mailer   email.Sender
	logger   *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	vetRepo repository.VetRepository,
	petRepo repository.PetRepository,
	userRepo repository.UserRepository,
	mailer email.Sender,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:     repo,
		vetRepo:  vetRepo,
		petRepo:  petRepo,
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, ownerID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	if _, err := s.petRepo.GetByIDAndOwner(ctx, dto.PetID, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("питомец не принадлежит владельцу: %w", domain.ErrForbidden)
		}
		return 0, err
	}

	vet, err := s.vetRepo.GetByID(ctx, dto.VetID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения профиля ветеринара", zap.Int64("vetID", dto.VetID), zap.Error(err))
		}
		return 0, err
	}

	if err := s.validateSchedule(vet, dto.AppointmentDate); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, ownerID, dto)
	if err != nil {
		if isDomainError(err) {
			return 0, err
		}
		s.logger.Error("ошибка создания записи на прием", zap.Error(err))
		return 0, errors.New("ошибка при создании записи")
	}

	s.notifyVet(vet, "Новая запись на прием",
		fmt.Sprintf("Владелец запросил прием %s. Подтвердите или отклоните запись в личном кабинете.",
			dto.AppointmentDate.Format("02.01.2006 15:04")))

	return id, nil
}

// validateSchedule проверяет, что время попадает в будущее, в рабочий день
// и на сетку слотов ветеринара.
func (s *AppointmentServiceImpl) validateSchedule(vet *domain.VetProfile, at time.Time) error {
	if !at.After(time.Now()) {
		return fmt.Errorf("время приема должно быть в будущем: %w", domain.ErrValidation)
	}

	if !scheduling.WorksOn(vet.WorkingDays, at) {
		return fmt.Errorf("ветеринар не принимает в этот день: %w", domain.ErrValidation)
	}

	slots, err := scheduling.GenerateSlots(vet.AvailableFrom, vet.AvailableTo, scheduling.SlotStep, nil)
	if err != nil {
		s.logger.Error("ошибка генерации слотов", zap.Int64("vetID", vet.ID), zap.Error(err))
		return errors.New("ошибка при проверке расписания")
	}

	timeStr := at.Format("15:04")
	for _, slot := range slots {
		if slot.Time == timeStr {
			return nil
		}
	}

	return fmt.Errorf("время %s не попадает в часы приема: %w", timeStr, domain.ErrValidation)
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка записей")
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчета записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка записей")
	}

	return appointments, count, nil
}

// transition выполняет переход статуса под защитой доменного автомата.
func (s *AppointmentServiceImpl) transition(ctx context.Context, id int64, next domain.AppointmentStatus) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("переход %s -> %s запрещен: %w", appointment.Status, next, domain.ErrInvalidTransition)
	}

	return appointment, nil
}

func (s *AppointmentServiceImpl) Confirm(ctx context.Context, id int64) error {
	appointment, err := s.transition(ctx, id, domain.AppointmentStatusConfirmed)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentStatusConfirmed); err != nil {
		s.logger.Error("ошибка подтверждения записи", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.notifyOwner(ctx, appointment, "Запись подтверждена",
		fmt.Sprintf("Ваша запись на %s подтверждена.", appointment.AppointmentDate.Format("02.01.2006 15:04")))

	return nil
}

func (s *AppointmentServiceImpl) Reject(ctx context.Context, id int64) error {
	appointment, err := s.transition(ctx, id, domain.AppointmentStatusRejected)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentStatusRejected); err != nil {
		s.logger.Error("ошибка отклонения записи", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.notifyOwner(ctx, appointment, "Запись отклонена",
		fmt.Sprintf("К сожалению, запись на %s отклонена. Выберите другое время.", appointment.AppointmentDate.Format("02.01.2006 15:04")))

	return nil
}

// Cancel переводит запись в cancelled. Доступность времени не проверяется,
// отмена освобождает слот и не может конфликтовать.
func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64, reason string) error {
	appointment, err := s.transition(ctx, id, domain.AppointmentStatusCancelled)
	if err != nil {
		return err
	}

	if err := s.repo.Cancel(ctx, id, reason); err != nil {
		s.logger.Error("ошибка отмены записи", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.notifyOwner(ctx, appointment, "Запись отменена",
		fmt.Sprintf("Запись на %s отменена.", appointment.AppointmentDate.Format("02.01.2006 15:04")))

	return nil
}

func (s *AppointmentServiceImpl) Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error {
	appointment, err := s.transition(ctx, id, domain.AppointmentStatusRescheduled)
	if err != nil {
		return err
	}

	vet, err := s.vetRepo.GetByID(ctx, appointment.VetID)
	if err != nil {
		s.logger.Error("ошибка получения профиля ветеринара", zap.Int64("vetID", appointment.VetID), zap.Error(err))
		return err
	}

	if err := s.validateSchedule(vet, dto.AppointmentDate); err != nil {
		return err
	}

	if err := s.repo.Reschedule(ctx, id, dto.AppointmentDate); err != nil {
		if isDomainError(err) {
			return err
		}
		s.logger.Error("ошибка переноса записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при переносе записи")
	}

	s.notifyOwner(ctx, appointment, "Запись перенесена",
		fmt.Sprintf("Запись перенесена на %s и ожидает подтверждения.", dto.AppointmentDate.Format("02.01.2006 15:04")))

	return nil
}

func (s *AppointmentServiceImpl) Complete(ctx context.Context, id int64, dto domain.CompleteAppointmentDTO) error {
	appointment, err := s.transition(ctx, id, domain.AppointmentStatusCompleted)
	if err != nil {
		return err
	}

	if appointment.AppointmentDate.After(time.Now()) {
		return fmt.Errorf("прием еще не начался: %w", domain.ErrValidation)
	}

	if err := s.repo.Complete(ctx, id, dto.Outcome); err != nil {
		s.logger.Error("ошибка завершения записи", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *AppointmentServiceImpl) SetVetNotes(ctx context.Context, id int64, notes string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.SetVetNotes(ctx, id, notes); err != nil {
		s.logger.Error("ошибка сохранения заметок", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *AppointmentServiceImpl) HasConflict(ctx context.Context, vetID int64, at string) (bool, error) {
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return false, fmt.Errorf("время должно быть в формате RFC3339: %w", domain.ErrValidation)
	}

	from, to := scheduling.ConflictWindow(t)
	count, err := s.repo.CountActiveInWindow(ctx, vetID, from, to, 0)
	if err != nil {
		s.logger.Error("ошибка проверки конфликтов", zap.Int64("vetID", vetID), zap.Error(err))
		return false, errors.New("ошибка при проверке доступности времени")
	}

	return count > 0, nil
}

func (s *AppointmentServiceImpl) Stats(ctx context.Context, vetID int64) (*domain.AppointmentStats, error) {
	stats, err := s.repo.Stats(ctx, vetID)
	if err != nil {
		s.logger.Error("ошибка получения статистики", zap.Int64("vetID", vetID), zap.Error(err))
		return nil, errors.New("ошибка при получении статистики")
	}
	return stats, nil
}

func (s *AppointmentServiceImpl) CompleteExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-completionGrace)

	n, err := s.repo.CompleteExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("ошибка автозавершения записей", zap.Error(err))
		return 0, err
	}

	if n > 0 {
		s.logger.Info("записи автоматически завершены", zap.Int64("count", n))
	}

	return n, nil
}

// notifyOwner отправляет письмо владельцу записи. Ошибки отправки только
// логируются, статус записи от почты не зависит.
func (s *AppointmentServiceImpl) notifyOwner(ctx context.Context, appointment *domain.Appointment, subject, body string) {
	if s.mailer == nil {
		return
	}

	owner, err := s.userRepo.GetByID(ctx, appointment.OwnerID)
	if err != nil {
		s.logger.Warn("владелец для уведомления не найден", zap.Int64("ownerID", appointment.OwnerID), zap.Error(err))
		return
	}

	go s.send(owner.Email, subject, body)
}

func (s *AppointmentServiceImpl) notifyVet(vet *domain.VetProfile, subject, body string) {
	if s.mailer == nil {
		return
	}

	go s.send(vet.User.Email, subject, body)
}

func (s *AppointmentServiceImpl) send(to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.mailer.Send(to, subject, body); err != nil {
		s.logger.Warn("ошибка отправки уведомления", zap.String("to", to), zap.Error(err))
	}
}
