package repo

import (
	"context"
	"strings"
	"sync"

	"samakicash/internal/domain"
)

// MemoryStore implements domain.RecordStore in process memory. It backs
// development runs without DATABASE_URL and the test suites.
type MemoryStore struct {
	mu      sync.RWMutex
	users   []domain.User
	catches []domain.CatchRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// InsertUser appends a user. Emails are unique, compared case-insensitively.
func (s *MemoryStore) InsertUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	s.users = append(s.users, user)
	return nil
}

// InsertCatch appends a catch record.
func (s *MemoryStore) InsertCatch(ctx context.Context, record domain.CatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record.PriceAnalysis = append([]byte(nil), record.PriceAnalysis...)
	s.mu.Lock()
	s.catches = append(s.catches, record)
	s.mu.Unlock()
	return nil
}

// FindUserByCredentials returns the user matching both email and hash exactly.
func (s *MemoryStore) FindUserByCredentials(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email && u.PasswordHash == passwordHash {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListCatchesByUser returns the user's records in insertion order.
func (s *MemoryStore) ListCatchesByUser(ctx context.Context, userID string) ([]domain.CatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CatchRecord, 0)
	for _, c := range s.catches {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User{}, s.users...), nil
}

func (s *MemoryStore) ListCatches(ctx context.Context) ([]domain.CatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CatchRecord{}, s.catches...), nil
}

var _ domain.RecordStore = (*MemoryStore)(nil)
