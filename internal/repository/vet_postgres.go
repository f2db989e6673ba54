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

type VetRepo struct {
	db *pgxpool.Pool
}

func NewVetRepository(db *pgxpool.Pool) *VetRepo {
	return &VetRepo{db: db}
}

const vetColumns = `v.id, v.user_id, v.specialty, v.clinic_name, v.clinic_address, v.consultation_fee,
		       v.available_from, v.available_to, v.working_days, v.profile_photo_url, v.created_at, v.updated_at,
		       u.id, u.first_name, u.last_name, u.email, u.phone, u.role, u.is_active, u.created_at, u.updated_at`

func (r *VetRepo) Create(ctx context.Context, userID int64, dto domain.CreateVetProfileDTO) (int64, error) {
	query := `
		INSERT INTO vet_profiles (
			user_id, specialty, clinic_name, clinic_address, consultation_fee,
			available_from, available_to, working_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		userID,
		dto.Specialty,
		dto.ClinicName,
		dto.ClinicAddress,
		dto.ConsultationFee,
		dto.AvailableFrom,
		dto.AvailableTo,
		dto.WorkingDays,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания профиля ветеринара: %w", err)
	}

	return id, nil
}

func (r *VetRepo) GetByID(ctx context.Context, id int64) (*domain.VetProfile, error) {
	return r.getByField(ctx, "v.id", id)
}

func (r *VetRepo) GetByUserID(ctx context.Context, userID int64) (*domain.VetProfile, error) {
	return r.getByField(ctx, "v.user_id", userID)
}

func (r *VetRepo) getByField(ctx context.Context, field string, value interface{}) (*domain.VetProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vet_profiles v
		JOIN users u ON v.user_id = u.id
		WHERE %s = $1
	`, vetColumns, field)

	profile, err := scanVetProfile(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения профиля ветеринара: %w", err)
	}

	return profile, nil
}

func scanVetProfile(row pgx.Row) (*domain.VetProfile, error) {
	var profile domain.VetProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Specialty,
		&profile.ClinicName,
		&profile.ClinicAddress,
		&profile.ConsultationFee,
		&profile.AvailableFrom,
		&profile.AvailableTo,
		&profile.WorkingDays,
		&profile.ProfilePhotoURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.User.ID,
		&profile.User.FirstName,
		&profile.User.LastName,
		&profile.User.Email,
		&profile.User.Phone,
		&profile.User.Role,
		&profile.User.IsActive,
		&profile.User.CreatedAt,
		&profile.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *VetRepo) Update(ctx context.Context, id int64, dto domain.UpdateVetProfileDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Specialty != nil {
		updateFields = append(updateFields, fmt.Sprintf("specialty = $%d", argCount))
		args = append(args, *dto.Specialty)
		argCount++
	}
	if dto.ClinicName != nil {
		updateFields = append(updateFields, fmt.Sprintf("clinic_name = $%d", argCount))
		args = append(args, *dto.ClinicName)
		argCount++
	}
	if dto.ClinicAddress != nil {
		updateFields = append(updateFields, fmt.Sprintf("clinic_address = $%d", argCount))
		args = append(args, *dto.ClinicAddress)
		argCount++
	}
	if dto.ConsultationFee != nil {
		updateFields = append(updateFields, fmt.Sprintf("consultation_fee = $%d", argCount))
		args = append(args, *dto.ConsultationFee)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE vet_profiles SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля ветеринара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *VetRepo) UpdateWorkingHours(ctx context.Context, id int64, dto domain.UpdateWorkingHoursDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.AvailableFrom != nil {
		updateFields = append(updateFields, fmt.Sprintf("available_from = $%d", argCount))
		args = append(args, *dto.AvailableFrom)
		argCount++
	}
	if dto.AvailableTo != nil {
		updateFields = append(updateFields, fmt.Sprintf("available_to = $%d", argCount))
		args = append(args, *dto.AvailableTo)
		argCount++
	}
	if dto.WorkingDays != nil {
		updateFields = append(updateFields, fmt.Sprintf("working_days = $%d", argCount))
		args = append(args, *dto.WorkingDays)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE vet_profiles SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления часов приема: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *VetRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `UPDATE vet_profiles SET profile_photo_url = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото профиля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *VetRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM vet_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления профиля ветеринара: %w", err)
	}
	return nil
}

func (r *VetRepo) List(ctx context.Context, specialty *string, limit, offset int) ([]domain.VetProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vet_profiles v
		JOIN users u ON v.user_id = u.id
		WHERE u.is_active = true
	`, vetColumns)

	var args []interface{}
	argCount := 1

	if specialty != nil {
		query += fmt.Sprintf(" AND v.specialty = $%d", argCount)
		args = append(args, *specialty)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY v.id LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка ветеринаров: %w", err)
	}
	defer rows.Close()

	var profiles []domain.VetProfile
	for rows.Next() {
		profile, err := scanVetProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки профиля: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return profiles, nil
}
