package domain

import "context"

// RecordStore is the persistence contract for users and catch records.
// Lookups are exact-match only and implementations must be safe for
// concurrent callers.
type RecordStore interface {
	InsertUser(ctx context.Context, user User) error
	InsertCatch(ctx context.Context, record CatchRecord) error
	FindUserByCredentials(ctx context.Context, email, passwordHash string) (*User, error)
	ListCatchesByUser(ctx context.Context, userID string) ([]CatchRecord, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListCatches(ctx context.Context) ([]CatchRecord, error)
}
