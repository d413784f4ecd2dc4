package domain

import "github.com/google/uuid"

type District struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
