package domain

import (
	"time"
)

type MedicalRecord struct {
	ID            int64     `json:"id"`
	PetID         int64     `json:"pet_id"`
	VetID         int64     `json:"vet_id"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	VisitDate     time.Time `json:"visit_date"`
	Diagnosis     string    `json:"diagnosis"`
	Treatment     string    `json:"treatment,omitempty"`
	Prescriptions string    `json:"prescriptions,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	VetName       string    `json:"vet_name,omitempty"`
	PetName       string    `json:"pet_name,omitempty"`
}

type CreateMedicalRecordDTO struct {
	PetID         int64     `json:"pet_id" binding:"required"`
	AppointmentID *int64    `json:"appointment_id"`
	VisitDate     time.Time `json:"visit_date" binding:"required"`
	Diagnosis     string    `json:"diagnosis" binding:"required"`
	Treatment     string    `json:"treatment"`
	Prescriptions string    `json:"prescriptions"`
	Notes         string    `json:"notes"`
}

type UpdateMedicalRecordDTO struct {
	Diagnosis     *string `json:"diagnosis"`
	Treatment     *string `json:"treatment"`
	Prescriptions *string `json:"prescriptions"`
	Notes         *string `json:"notes"`
}

type MedicalRecordFilter struct {
	PetID  *int64 `json:"pet_id"`
	VetID  *int64 `json:"vet_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
