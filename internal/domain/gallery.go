package domain

import (
	"time"
)

type GalleryImage struct {
	ID        int64     `json:"id"`
	PetID     int64     `json:"pet_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
