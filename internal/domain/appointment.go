package domain

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusRejected    AppointmentStatus = "rejected"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusRescheduled,
		AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusRejected:
		return AppointmentStatus(s), nil
	}
	return "", fmt.Errorf("неизвестный статус записи %q: %w", s, ErrValidation)
}

// IsTerminal сообщает, допускает ли статус дальнейшие переходы.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted || s == AppointmentStatusRejected
}

// IsActive сообщает, участвует ли запись в проверке конфликтов времени.
func (s AppointmentStatus) IsActive() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusRejected
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case AppointmentStatusConfirmed:
		return s == AppointmentStatusPending || s == AppointmentStatusRescheduled
	case AppointmentStatusRejected:
		return s == AppointmentStatusPending
	case AppointmentStatusRescheduled:
		return s == AppointmentStatusPending || s == AppointmentStatusConfirmed || s == AppointmentStatusRescheduled
	case AppointmentStatusCancelled:
		return true
	case AppointmentStatusCompleted:
		return s == AppointmentStatusConfirmed
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeCheckup     AppointmentType = "checkup"
	AppointmentTypeVaccination AppointmentType = "vaccination"
	AppointmentTypeTreatment   AppointmentType = "treatment"
)

type Appointment struct {
	ID                 int64             `json:"id"`
	OwnerID            int64             `json:"owner_id"`
	VetID              int64             `json:"vet_id"`
	PetID              int64             `json:"pet_id"`
	Type               AppointmentType   `json:"type"`
	AppointmentDate    time.Time         `json:"appointment_date"`
	Status             AppointmentStatus `json:"status"`
	Reason             string            `json:"reason,omitempty"`
	OwnerNotes         string            `json:"owner_notes,omitempty"`
	VetNotes           string            `json:"vet_notes,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	Outcome            string            `json:"outcome,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	OwnerName          string            `json:"owner_name,omitempty"`
	PetName            string            `json:"pet_name,omitempty"`
	VetName            string            `json:"vet_name,omitempty"`
	ClinicAddress      string            `json:"clinic_address,omitempty"`
	ConsultationFee    float64           `json:"consultation_fee,omitempty"`
}

type CreateAppointmentDTO struct {
	VetID           int64           `json:"vet_id" binding:"required"`
	PetID           int64           `json:"pet_id" binding:"required"`
	Type            AppointmentType `json:"type" binding:"required,oneof=checkup vaccination treatment"`
	AppointmentDate time.Time       `json:"appointment_date" binding:"required"`
	Reason          string          `json:"reason"`
	OwnerNotes      string          `json:"owner_notes"`
}

type RescheduleAppointmentDTO struct {
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
}

type CancelAppointmentDTO struct {
	Reason string `json:"reason"`
}

type CompleteAppointmentDTO struct {
	Outcome string `json:"outcome"`
}

type VetNotesDTO struct {
	VetNotes string `json:"vet_notes" binding:"required"`
}

type AppointmentFilter struct {
	OwnerID   *int64             `json:"owner_id"`
	VetID     *int64             `json:"vet_id"`
	PetID     *int64             `json:"pet_id"`
	Status    *AppointmentStatus `json:"status"`
	StartDate *time.Time         `json:"start_date"`
	EndDate   *time.Time         `json:"end_date"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type AppointmentStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Rejected  int `json:"rejected"`
}
