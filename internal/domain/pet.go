package domain

import (
	"time"
)

type PetSpecies string

const (
	PetSpeciesDog     PetSpecies = "dog"
	PetSpeciesCat     PetSpecies = "cat"
	PetSpeciesBird    PetSpecies = "bird"
	PetSpeciesRabbit  PetSpecies = "rabbit"
	PetSpeciesReptile PetSpecies = "reptile"
	PetSpeciesOther   PetSpecies = "other"
)

type PetGender string

const (
	PetGenderMale   PetGender = "male"
	PetGenderFemale PetGender = "female"
)

type Pet struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"owner_id"`
	Name      string     `json:"name"`
	Species   PetSpecies `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	Gender    PetGender  `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	WeightKg  float64    `json:"weight_kg,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreatePetDTO struct {
	Name      string     `json:"name" binding:"required"`
	Species   PetSpecies `json:"species" binding:"required,oneof=dog cat bird rabbit reptile other"`
	Breed     string     `json:"breed"`
	Gender    PetGender  `json:"gender" binding:"omitempty,oneof=male female"`
	BirthDate *time.Time `json:"birth_date"`
	WeightKg  float64    `json:"weight_kg" binding:"omitempty,min=0"`
	Notes     string     `json:"notes"`
}

type UpdatePetDTO struct {
	Name      *string     `json:"name"`
	Species   *PetSpecies `json:"species" binding:"omitempty,oneof=dog cat bird rabbit reptile other"`
	Breed     *string     `json:"breed"`
	Gender    *PetGender  `json:"gender" binding:"omitempty,oneof=male female"`
	BirthDate *time.Time  `json:"birth_date"`
	WeightKg  *float64    `json:"weight_kg" binding:"omitempty,min=0"`
	Notes     *string     `json:"notes"`
}
