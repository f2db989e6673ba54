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

type MedicalRecordRepo struct {
	db *pgxpool.Pool
}

func NewMedicalRecordRepository(db *pgxpool.Pool) *MedicalRecordRepo {
	return &MedicalRecordRepo{db: db}
}

const medicalRecordColumns = `m.id, m.pet_id, m.vet_id, m.appointment_id, m.visit_date, m.diagnosis,
		       m.treatment, m.prescriptions, m.notes, m.created_at, m.updated_at,
		       u.first_name || ' ' || u.last_name AS vet_name,
		       p.name AS pet_name`

const medicalRecordJoins = `
		FROM medical_records m
		JOIN vet_profiles v ON m.vet_id = v.id
		JOIN users u ON v.user_id = u.id
		JOIN pets p ON m.pet_id = p.id`

func (r *MedicalRecordRepo) Create(ctx context.Context, vetID int64, dto domain.CreateMedicalRecordDTO) (int64, error) {
	query := `
		INSERT INTO medical_records (pet_id, vet_id, appointment_id, visit_date, diagnosis, treatment, prescriptions, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.PetID,
		vetID,
		dto.AppointmentID,
		dto.VisitDate,
		dto.Diagnosis,
		dto.Treatment,
		dto.Prescriptions,
		dto.Notes,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания медицинской записи: %w", err)
	}

	return id, nil
}

func (r *MedicalRecordRepo) GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE m.id = $1", medicalRecordColumns, medicalRecordJoins)

	record, err := scanMedicalRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения медицинской записи: %w", err)
	}

	return record, nil
}

func scanMedicalRecord(row pgx.Row) (*domain.MedicalRecord, error) {
	var record domain.MedicalRecord
	err := row.Scan(
		&record.ID,
		&record.PetID,
		&record.VetID,
		&record.AppointmentID,
		&record.VisitDate,
		&record.Diagnosis,
		&record.Treatment,
		&record.Prescriptions,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.VetName,
		&record.PetName,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MedicalRecordRepo) Update(ctx context.Context, id int64, dto domain.UpdateMedicalRecordDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Diagnosis != nil {
		updateFields = append(updateFields, fmt.Sprintf("diagnosis = $%d", argCount))
		args = append(args, *dto.Diagnosis)
		argCount++
	}
	if dto.Treatment != nil {
		updateFields = append(updateFields, fmt.Sprintf("treatment = $%d", argCount))
		args = append(args, *dto.Treatment)
		argCount++
	}
	if dto.Prescriptions != nil {
		updateFields = append(updateFields, fmt.Sprintf("prescriptions = $%d", argCount))
		args = append(args, *dto.Prescriptions)
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
	query := fmt.Sprintf("UPDATE medical_records SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления медицинской записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *MedicalRecordRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления медицинской записи: %w", err)
	}
	return nil
}

func medicalRecordConditions(filter domain.MedicalRecordFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.PetID != nil {
		conditions = append(conditions, fmt.Sprintf("m.pet_id = $%d", argCount))
		args = append(args, *filter.PetID)
		argCount++
	}
	if filter.VetID != nil {
		conditions = append(conditions, fmt.Sprintf("m.vet_id = $%d", argCount))
		args = append(args, *filter.VetID)
		argCount++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *MedicalRecordRepo) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, error) {
	whereClause, args := medicalRecordConditions(filter)

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY m.visit_date DESC", medicalRecordColumns, medicalRecordJoins, whereClause)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения медицинских записей: %w", err)
	}
	defer rows.Close()

	records := make([]domain.MedicalRecord, 0)
	for rows.Next() {
		record, err := scanMedicalRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return records, nil
}

func (r *MedicalRecordRepo) CountByFilter(ctx context.Context, filter domain.MedicalRecordFilter) (int, error) {
	whereClause, args := medicalRecordConditions(filter)

	query := "SELECT COUNT(*) FROM medical_records m" + whereClause

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета медицинских записей: %w", err)
	}

	return count, nil
}
