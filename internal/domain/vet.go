package domain

import (
	"time"
)

// VetProfile хранит профиль ветеринара вместе с часами приема клиники.
type VetProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Specialty       string    `json:"specialty"`
	ClinicName      string    `json:"clinic_name"`
	ClinicAddress   string    `json:"clinic_address"`
	ConsultationFee float64   `json:"consultation_fee"`
	AvailableFrom   string    `json:"available_from"`
	AvailableTo     string    `json:"available_to"`
	WorkingDays     []string  `json:"working_days"`
	ProfilePhotoURL string    `json:"profile_photo_url"`
	User            User      `json:"user"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateVetProfileDTO struct {
	Specialty       string   `json:"specialty" binding:"required"`
	ClinicName      string   `json:"clinic_name" binding:"required"`
	ClinicAddress   string   `json:"clinic_address"`
	ConsultationFee float64  `json:"consultation_fee" binding:"min=0"`
	AvailableFrom   string   `json:"available_from"`
	AvailableTo     string   `json:"available_to"`
	WorkingDays     []string `json:"working_days" binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

type UpdateVetProfileDTO struct {
	Specialty       *string  `json:"specialty"`
	ClinicName      *string  `json:"clinic_name"`
	ClinicAddress   *string  `json:"clinic_address"`
	ConsultationFee *float64 `json:"consultation_fee" binding:"omitempty,min=0"`
}

type UpdateWorkingHoursDTO struct {
	AvailableFrom *string   `json:"available_from"`
	AvailableTo   *string   `json:"available_to"`
	WorkingDays   *[]string `json:"working_days" binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// WorkingHours — открытая часть профиля, которую видят владельцы животных.
type WorkingHours struct {
	VetID           int64    `json:"vet_id"`
	ClinicName      string   `json:"clinic_name"`
	ClinicAddress   string   `json:"clinic_address"`
	ConsultationFee float64  `json:"consultation_fee"`
	AvailableFrom   string   `json:"available_from"`
	AvailableTo     string   `json:"available_to"`
	WorkingDays     []string `json:"working_days"`
}

// TimeSlot — слот приема, вычисляется на каждый запрос и не хранится.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// DaySchedule — сетка слотов ветеринара на одну дату.
// В нерабочий день Slots пуст, а Message объясняет причину.
type DaySchedule struct {
	Date    string     `json:"date"`
	Working bool       `json:"working"`
	Message string     `json:"message,omitempty"`
	Slots   []TimeSlot `json:"slots"`
}
