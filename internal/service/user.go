package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pawcare/internal/domain"
	"pawcare/internal/repository"
	"pawcare/pkg/auth"
	"pawcare/pkg/validator"
)

type UserServiceImpl struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, fmt.Errorf("некорректный email: %w", domain.ErrValidation)
	}
	if !validator.ValidatePhone(dto.Phone) {
		return 0, fmt.Errorf("некорректный номер телефона: %w", domain.ErrValidation)
	}

	dto.FirstName = validator.FormatName(validator.SanitizeString(dto.FirstName))
	dto.LastName = validator.FormatName(validator.SanitizeString(dto.LastName))

	hashedPassword, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return 0, errors.New("ошибка при создании пользователя")
	}
	dto.Password = hashedPassword

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка создания пользователя", zap.Error(err))
		return 0, errors.New("ошибка при создании пользователя")
	}

	return id, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	if dto.Email != nil && !validator.ValidateEmail(*dto.Email) {
		return fmt.Errorf("некорректный email: %w", domain.ErrValidation)
	}
	if dto.Phone != nil && !validator.ValidatePhone(*dto.Phone) {
		return fmt.Errorf("некорректный номер телефона: %w", domain.ErrValidation)
	}
	if dto.FirstName != nil {
		dto.FirstName = PointerTo(validator.FormatName(validator.SanitizeString(*dto.FirstName)))
	}
	if dto.LastName != nil {
		dto.LastName = PointerTo(validator.FormatName(validator.SanitizeString(*dto.LastName)))
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка обновления пользователя", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	return nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return errors.New("ошибка при смене пароля")
	}
	if !ok {
		return fmt.Errorf("неверный текущий пароль: %w", domain.ErrValidation)
	}

	hashedPassword, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return errors.New("ошибка при смене пароля")
	}

	if err := s.repo.UpdatePassword(ctx, id, hashedPassword); err != nil {
		s.logger.Error("ошибка обновления пароля", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при смене пароля")
	}

	return nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка удаления пользователя", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		return nil, errors.New("ошибка при получении списка пользователей")
	}
	return users, nil
}
