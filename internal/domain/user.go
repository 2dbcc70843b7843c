package domain

import "time"

// UserType enumerates the kinds of accounts a user can register as.
type UserType string

const (
	UserTypeFisher UserType = "fisher"
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

// User represents a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     UserType  `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Valid reports whether t is one of the known account kinds.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeFisher, UserTypeBuyer, UserTypeSeller:
		return true
	}
	return false
}
