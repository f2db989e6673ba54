package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawcare/internal/domain"
)

type PetRepo struct {
	db *pgxpool.Pool
}

func NewPetRepository(db *pgxpool.Pool) *PetRepo {
	return &PetRepo{db: db}
}

const petColumns = `id, owner_id, name, species, breed, gender, birth_date, weight_kg, photo_url, notes, created_at, updated_at`

func (r *PetRepo) Create(ctx context.Context, ownerID int64, dto domain.CreatePetDTO) (int64, error) {
	query := `
		INSERT INTO pets (owner_id, name, species, breed, gender, birth_date, weight_kg, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		ownerID,
		dto.Name,
		dto.Species,
		dto.Breed,
		dto.Gender,
		dto.BirthDate,
		dto.WeightKg,
		dto.Notes,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания питомца: %w", err)
	}

	return id, nil
}

func (r *PetRepo) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	query := fmt.Sprintf("SELECT %s FROM pets WHERE id = $1", petColumns)
	return r.getOne(ctx, query, id)
}

func (r *PetRepo) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Pet, error) {
	query := fmt.Sprintf("SELECT %s FROM pets WHERE id = $1 AND owner_id = $2", petColumns)
	return r.getOne(ctx, query, id, ownerID)
}

func (r *PetRepo) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Pet, error) {
	var pet domain.Pet
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Gender,
		&pet.BirthDate,
		&pet.WeightKg,
		&pet.PhotoURL,
		&pet.Notes,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения питомца: %w", err)
	}

	return &pet, nil
}

func (r *PetRepo) Update(ctx context.Context, id int64, dto domain.UpdatePetDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}
	if dto.Species != nil {
		updateFields = append(updateFields, fmt.Sprintf("species = $%d", argCount))
		args = append(args, *dto.Species)
		argCount++
	}
	if dto.Breed != nil {
		updateFields = append(updateFields, fmt.Sprintf("breed = $%d", argCount))
		args = append(args, *dto.Breed)
		argCount++
	}
	if dto.Gender != nil {
		updateFields = append(updateFields, fmt.Sprintf("gender = $%d", argCount))
		args = append(args, *dto.Gender)
		argCount++
	}
	if dto.BirthDate != nil {
		updateFields = append(updateFields, fmt.Sprintf("birth_date = $%d", argCount))
		args = append(args, *dto.BirthDate)
		argCount++
	}
	if dto.WeightKg != nil {
		updateFields = append(updateFields, fmt.Sprintf("weight_kg = $%d", argCount))
		args = append(args, *dto.WeightKg)
		argCount++
	}
	if dto.Notes != nil {
		updateFields = append(updateFields, fmt.Sprintf("notes = $%d", argCount))
		args = append(args, *dto.Notes)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE pets SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления питомца: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PetRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `UPDATE pets SET photo_url = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото питомца: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PetRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления питомца: %w", err)
	}
	return nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Pet, error) {
	query := fmt.Sprintf("SELECT %s FROM pets WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3", petColumns)

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка питомцев: %w", err)
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		var pet domain.Pet
		if err := rows.Scan(
			&pet.ID,
			&pet.OwnerID,
			&pet.Name,
			&pet.Species,
			&pet.Breed,
			&pet.Gender,
			&pet.BirthDate,
			&pet.WeightKg,
			&pet.PhotoURL,
			&pet.Notes,
			&pet.CreatedAt,
			&pet.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки питомца: %w", err)
		}
		pets = append(pets, pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return pets, nil
}
