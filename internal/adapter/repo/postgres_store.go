package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
	"samakicash/internal/sqlinline"
)

const uniqueViolation = "23505"

// PostgresStore implements domain.RecordStore backed by PostgreSQL.
type PostgresStore struct {
	runner *infra.SQLRunner
}

// NewPostgresStore creates a store that issues statements through runner.
func NewPostgresStore(runner *infra.SQLRunner) *PostgresStore {
	return &PostgresStore{runner: runner}
}

// Migrate creates the users and catches tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.runner.Exec(ctx, sqlinline.QCreateSchema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user domain.User) error {
	_, err := s.runner.Exec(ctx, sqlinline.QInsertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.UserType),
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertCatch(ctx context.Context, record domain.CatchRecord) error {
	_, err := s.runner.Exec(ctx, sqlinline.QInsertCatch,
		record.ID,
		record.UserID,
		record.FishType,
		record.QuantityKg,
		record.Location,
		string(record.PriceAnalysis),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert catch: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindUserByCredentials(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	users, err := s.queryUsers(ctx, sqlinline.QSelectUserByCredentials, email, passwordHash)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	return &users[0], nil
}

func (s *PostgresStore) ListCatchesByUser(ctx context.Context, userID string) ([]domain.CatchRecord, error) {
	return s.queryCatches(ctx, sqlinline.QListCatchesByUser, userID)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.queryUsers(ctx, sqlinline.QListUsers)
}

func (s *PostgresStore) ListCatches(ctx context.Context) ([]domain.CatchRecord, error) {
	return s.queryCatches(ctx, sqlinline.QListCatches)
}

func (s *PostgresStore) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := s.runner.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()
	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		var userType string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &userType, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.UserType = domain.UserType(userType)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) queryCatches(ctx context.Context, query string, args ...any) ([]domain.CatchRecord, error) {
	rows, err := s.runner.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catches: %w", err)
	}
	defer rows.Close()
	catches := make([]domain.CatchRecord, 0)
	for rows.Next() {
		var c domain.CatchRecord
		var price []byte
		var createdAt time.Time
		if err := rows.Scan(&c.ID, &c.UserID, &c.FishType, &c.QuantityKg, &c.Location, &price, &createdAt); err != nil {
			return nil, fmt.Errorf("scan catch: %w", err)
		}
		c.PriceAnalysis = append([]byte(nil), price...)
		c.CreatedAt = createdAt
		catches = append(catches, c)
	}
	return catches, rows.Err()
}

var _ domain.RecordStore = (*PostgresStore)(nil)

// ensure *sql.DB satisfies the runner contract.
var _ infra.SQLExecutor = (*sql.DB)(nil)
