package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pawcare/internal/domain"
	"pawcare/internal/repository"
)

type MedicalRecordServiceImpl struct {
	repo    repository.MedicalRecordRepository
	petRepo repository.PetRepository
	logger  *zap.Logger
}

func NewMedicalRecordService(
	repo repository.MedicalRecordRepository,
	petRepo repository.PetRepository,
	logger *zap.Logger,
) *MedicalRecordServiceImpl {
	return &MedicalRecordServiceImpl{
		repo:    repo,
		petRepo: petRepo,
		logger:  logger,
	}
}

func (s *MedicalRecordServiceImpl) Create(ctx context.Context, vetID int64, dto domain.CreateMedicalRecordDTO) (int64, error) {
	if _, err := s.petRepo.GetByID(ctx, dto.PetID); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, vetID, dto)
	if err != nil {
		s.logger.Error("ошибка создания медицинской записи", zap.Int64("vetID", vetID), zap.Error(err))
		return 0, errors.New("ошибка при создании медицинской записи")
	}

	return id, nil
}

func (s *MedicalRecordServiceImpl) GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения медицинской записи", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return record, nil
}

func (s *MedicalRecordServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateMedicalRecordDTO) error {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка обновления медицинской записи", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *MedicalRecordServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления медицинской записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении медицинской записи")
	}

	return nil
}

func (s *MedicalRecordServiceImpl) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, int, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения медицинских записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении медицинских записей")
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчета медицинских записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении медицинских записей")
	}

	return records, count, nil
}
