package domain

import (
	"time"

	"github.com/google/uuid"
)

type Party struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	LogoURL     string    `json:"logo_url,omitempty"`
	PresidentID uuid.UUID `json:"president_id"`
	CreatedAt   time.Time `json:"created_at"`
}
