package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pawcare/internal/domain"
	"pawcare/internal/repository"
	"pawcare/internal/storage"
	"pawcare/pkg/validator"
)

type PetServiceImpl struct {
	repo        repository.PetRepository
	galleryRepo repository.GalleryRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewPetService(
	repo repository.PetRepository,
	galleryRepo repository.GalleryRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *PetServiceImpl {
	return &PetServiceImpl{
		repo:        repo,
		galleryRepo: galleryRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *PetServiceImpl) Create(ctx context.Context, ownerID int64, dto domain.CreatePetDTO) (int64, error) {
	dto.Name = validator.SanitizeString(dto.Name)

	id, err := s.repo.Create(ctx, ownerID, dto)
	if err != nil {
		s.logger.Error("ошибка создания питомца", zap.Int64("ownerID", ownerID), zap.Error(err))
		return 0, errors.New("ошибка при создании питомца")
	}

	return id, nil
}

func (s *PetServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка получения питомца", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return pet, nil
}

func (s *PetServiceImpl) Update(ctx context.Context, id, ownerID int64, dto domain.UpdatePetDTO) error {
	if _, err := s.repo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}

	if dto.Name != nil {
		dto.Name = PointerTo(validator.SanitizeString(*dto.Name))
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("ошибка обновления питомца", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	return nil
}

// removeFile удаляет файл из хранилища, молча пропуская вызов,
// если хранилище не настроено. Ошибка удаления не прерывает операцию.
func (s *PetServiceImpl) removeFile(ctx context.Context, url string) {
	if s.fileStorage == nil || url == "" {
		return
	}
	if err := s.fileStorage.DeleteFile(ctx, url); err != nil {
		s.logger.Warn("ошибка удаления фото из хранилища", zap.Error(err))
	}
}

func (s *PetServiceImpl) Delete(ctx context.Context, id, ownerID int64) error {
	pet, err := s.repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	s.removeFile(ctx, pet.PhotoURL)

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления питомца", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении питомца")
	}

	return nil
}

func (s *PetServiceImpl) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Pet, error) {
	pets, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка питомцев", zap.Int64("ownerID", ownerID), zap.Error(err))
		return nil, errors.New("ошибка при получении списка питомцев")
	}
	return pets, nil
}

func (s *PetServiceImpl) UploadPhoto(ctx context.Context, id, ownerID int64, photo []byte, filename string) error {
	if s.fileStorage == nil {
		return errStorageDisabled
	}

	pet, err := s.repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	s.removeFile(ctx, pet.PhotoURL)

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото питомца", zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	if err := s.repo.UpdatePhoto(ctx, id, url); err != nil {
		s.logger.Error("ошибка сохранения фото питомца", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	return nil
}

func (s *PetServiceImpl) DeletePhoto(ctx context.Context, id, ownerID int64) error {
	pet, err := s.repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if pet.PhotoURL == "" {
		return nil
	}

	s.removeFile(ctx, pet.PhotoURL)

	if err := s.repo.UpdatePhoto(ctx, id, ""); err != nil {
		s.logger.Error("ошибка очистки фото питомца", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	return nil
}

func (s *PetServiceImpl) AddGalleryImage(ctx context.Context, petID, ownerID int64, photo []byte, filename, caption string) (int64, error) {
	if s.fileStorage == nil {
		return 0, errStorageDisabled
	}

	if _, err := s.repo.GetByIDAndOwner(ctx, petID, ownerID); err != nil {
		return 0, err
	}

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото в галерею", zap.Error(err))
		return 0, errors.New("ошибка при загрузке фото")
	}

	id, err := s.galleryRepo.Add(ctx, petID, url, validator.SanitizeString(caption))
	if err != nil {
		s.logger.Error("ошибка сохранения фото в галерее", zap.Int64("petID", petID), zap.Error(err))
		return 0, errors.New("ошибка при загрузке фото")
	}

	return id, nil
}

func (s *PetServiceImpl) GetGallery(ctx context.Context, petID int64) ([]domain.GalleryImage, error) {
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return nil, err
	}

	images, err := s.galleryRepo.ListByPet(ctx, petID)
	if err != nil {
		s.logger.Error("ошибка получения галереи питомца", zap.Int64("petID", petID), zap.Error(err))
		return nil, errors.New("ошибка при получении галереи")
	}

	return images, nil
}

func (s *PetServiceImpl) DeleteGalleryImage(ctx context.Context, imageID, ownerID int64) error {
	image, err := s.galleryRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByIDAndOwner(ctx, image.PetID, ownerID); err != nil {
		return err
	}

	s.removeFile(ctx, image.URL)

	if err := s.galleryRepo.Delete(ctx, imageID); err != nil {
		s.logger.Error("ошибка удаления фото из галереи", zap.Int64("imageID", imageID), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	return nil
}
