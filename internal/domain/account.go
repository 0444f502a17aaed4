package domain

import "time"

// Account represents one registered identity able to own race registrations.
// Accounts are immutable after creation and are never deleted.
type Account struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	IsAdmin      bool
}
