package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawcare/internal/domain"
	"pawcare/internal/scheduling"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

const appointmentColumns = `a.id, a.owner_id, a.vet_id, a.pet_id, a.type, a.appointment_date, a.status,
		       a.reason, a.owner_notes, a.vet_notes, a.cancellation_reason, a.outcome, a.created_at, a.updated_at,
		       u.first_name || ' ' || u.last_name AS owner_name,
		       p.name AS pet_name,
		       vu.first_name || ' ' || vu.last_name AS vet_name,
		       v.clinic_address, v.consultation_fee`

const appointmentJoins = `
		FROM appointments a
		JOIN users u ON a.owner_id = u.id
		JOIN pets p ON a.pet_id = p.id
		JOIN vet_profiles v ON a.vet_id = v.id
		JOIN users vu ON v.user_id = vu.id`

// uniqueViolation — код ошибки PostgreSQL для нарушения уникального индекса.
// Частичный индекс по (vet_id, appointment_date) для активных статусов — страховка
// от гонки двух одновременных бронирований, прошедших проверку окна.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *AppointmentRepo) Create(ctx context.Context, ownerID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	from, to := scheduling.ConflictWindow(dto.AppointmentDate)

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE vet_id = $1
		AND appointment_date BETWEEN $2 AND $3
		AND status NOT IN ('cancelled', 'rejected')
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, dto.VetID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return 0, domain.ErrConflict
	}

	query := `
		INSERT INTO appointments (owner_id, vet_id, pet_id, type, appointment_date, status, reason, owner_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		ownerID,
		dto.VetID,
		dto.PetID,
		dto.Type,
		dto.AppointmentDate,
		domain.AppointmentStatusPending,
		dto.Reason,
		dto.OwnerNotes,
		time.Now(),
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("ошибка создания записи на прием: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.id = $1", appointmentColumns, appointmentJoins)

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи на прием: %w", err)
	}

	return appointment, nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.OwnerID,
		&appointment.VetID,
		&appointment.PetID,
		&appointment.Type,
		&appointment.AppointmentDate,
		&appointment.Status,
		&appointment.Reason,
		&appointment.OwnerNotes,
		&appointment.VetNotes,
		&appointment.CancellationReason,
		&appointment.Outcome,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.OwnerName,
		&appointment.PetName,
		&appointment.VetName,
		&appointment.ClinicAddress,
		&appointment.ConsultationFee,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func appointmentConditions(filter domain.AppointmentFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("a.owner_id = $%d", argCount))
		args = append(args, *filter.OwnerID)
		argCount++
	}
	if filter.VetID != nil {
		conditions = append(conditions, fmt.Sprintf("a.vet_id = $%d", argCount))
		args = append(args, *filter.VetID)
		argCount++
	}
	if filter.PetID != nil {
		conditions = append(conditions, fmt.Sprintf("a.pet_id = $%d", argCount))
		args = append(args, *filter.PetID)
		argCount++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	whereClause, args := appointmentConditions(filter)

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY a.appointment_date DESC", appointmentColumns, appointmentJoins, whereClause)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	whereClause, args := appointmentConditions(filter)

	query := "SELECT COUNT(*) FROM appointments a" + whereClause

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	query := `UPDATE appointments SET status = $1, cancellation_reason = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusCancelled, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка отмены записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) Complete(ctx context.Context, id int64, outcome string) error {
	query := `UPDATE appointments SET status = $1, outcome = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusCompleted, outcome, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка завершения записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Reschedule переносит запись на новое время. Проверка конфликта и обновление
// выполняются в одной транзакции, собственная запись из проверки исключается.
// При конфликте дата записи не меняется.
func (r *AppointmentRepo) Reschedule(ctx context.Context, id int64, newDate time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var vetID int64
	err = tx.QueryRow(ctx, `SELECT vet_id FROM appointments WHERE id = $1`, id).Scan(&vetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("ошибка получения текущих данных записи: %w", err)
	}

	from, to := scheduling.ConflictWindow(newDate)

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE vet_id = $1
		AND appointment_date BETWEEN $2 AND $3
		AND id != $4
		AND status NOT IN ('cancelled', 'rejected')
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, vetID, from, to, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return domain.ErrConflict
	}

	query := `UPDATE appointments SET appointment_date = $1, status = $2, updated_at = $3 WHERE id = $4`
	_, err = tx.Exec(ctx, query, newDate, domain.AppointmentStatusRescheduled, time.Now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("ошибка переноса записи: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) SetVetNotes(ctx context.Context, id int64, notes string) error {
	query := `UPDATE appointments SET vet_notes = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления заметок ветеринара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) CountActiveInWindow(ctx context.Context, vetID int64, from, to time.Time, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE vet_id = $1
		AND appointment_date BETWEEN $2 AND $3
		AND id != $4
		AND status NOT IN ('cancelled', 'rejected')
	`

	var count int
	err := r.db.QueryRow(ctx, query, vetID, from, to, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки конфликтов: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) BookedTimes(ctx context.Context, vetID int64, date time.Time) (map[string]bool, error) {
	query := `
		SELECT TO_CHAR(appointment_date, 'HH24:MI') AS time_slot
		FROM appointments
		WHERE vet_id = $1
		AND DATE(appointment_date) = $2
		AND status = 'confirmed'
	`

	rows, err := r.db.Query(ctx, query, vetID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения занятых слотов: %w", err)
	}
	defer rows.Close()

	booked := make(map[string]bool)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("ошибка сканирования слотов: %w", err)
		}
		booked[slot] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return booked, nil
}

func (r *AppointmentRepo) Stats(ctx context.Context, vetID int64) (*domain.AppointmentStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM appointments
		WHERE vet_id = $1
	`

	var stats domain.AppointmentStats
	err := r.db.QueryRow(ctx, query, vetID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Completed,
		&stats.Cancelled,
		&stats.Rejected,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики записей: %w", err)
	}

	return &stats, nil
}

// CompleteExpired переводит подтвержденные записи старше cutoff в completed.
// Операция идемпотентна, повторный запуск ничего не меняет.
func (r *AppointmentRepo) CompleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE status = $3 AND appointment_date < $4
	`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusCompleted, time.Now(), domain.AppointmentStatusConfirmed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка автозавершения записей: %w", err)
	}

	return tag.RowsAffected(), nil
}
