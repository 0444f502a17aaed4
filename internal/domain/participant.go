package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one entrant's registration for a single race distance.
// Records are append-only: once admitted they are never mutated or deleted.
type Participant struct {
	Email          string
	FirstName      string
	LastName       string
	AgeGroup       string
	Gender         string
	Distance       string
	WantsShirt     bool
	ShirtColor     string
	RegistrationID uuid.UUID
	RegisteredAt   time.Time
}
