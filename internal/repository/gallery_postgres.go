package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawcare/internal/domain"
)

type GalleryRepo struct {
	db *pgxpool.Pool
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{db: db}
}

func (r *GalleryRepo) Add(ctx context.Context, petID int64, url, caption string) (int64, error) {
	query := `
		INSERT INTO gallery_images (pet_id, url, caption, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, petID, url, caption, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления фото в галерею: %w", err)
	}

	return id, nil
}

func (r *GalleryRepo) GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	query := `SELECT id, pet_id, url, caption, created_at FROM gallery_images WHERE id = $1`

	var image domain.GalleryImage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&image.ID,
		&image.PetID,
		&image.URL,
		&image.Caption,
		&image.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения фото: %w", err)
	}

	return &image, nil
}

func (r *GalleryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления фото: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GalleryRepo) ListByPet(ctx context.Context, petID int64) ([]domain.GalleryImage, error) {
	query := `SELECT id, pet_id, url, caption, created_at FROM gallery_images WHERE pet_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, petID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения галереи питомца: %w", err)
	}
	defer rows.Close()

	images := make([]domain.GalleryImage, 0)
	for rows.Next() {
		var image domain.GalleryImage
		if err := rows.Scan(
			&image.ID,
			&image.PetID,
			&image.URL,
			&image.Caption,
			&image.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки фото: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return images, nil
}
