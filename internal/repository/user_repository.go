package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-service/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

const (
	pgUniqueViolation = "23505"

	usersPrimaryKey   = "users_pkey"
	usersEmailIndex   = "users_email_lower_idx"
	userSelectColumns = "id, first_name, last_name, email, state, registration_date, version"
)

// UserRepository defines persistence access for user accounts.
//
// Save inserts rows whose Version is zero and conditionally updates all
// others: the write only succeeds when the stored version still equals the
// one the caller read, otherwise it fails with
// *domain.ConcurrentModificationError. The returned user carries the new
// version stamp.
type UserRepository interface {
	ExistsByEmailIgnoreCase(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) ExistsByEmailIgnoreCase(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userSelectColumns + ` FROM users WHERE id=$1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userSelectColumns + ` FROM users ORDER BY registration_date, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.Version == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *userRepository) insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
        INSERT INTO users (id, first_name, last_name, email, state, registration_date, version)
        VALUES ($1, $2, $3, $4, $5, $6, 1)
        RETURNING ` + userSelectColumns

	saved, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.State,
		user.RegistrationDate,
	))
	if err != nil {
		return nil, r.mapWriteError(err, user)
	}
	return saved, nil
}

func (r *userRepository) update(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, email=$3, state=$4, version=version+1
        WHERE id=$5 AND version=$6
        RETURNING ` + userSelectColumns

	saved, err := scanUser(r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.State,
		user.ID,
		user.Version,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.ConcurrentModificationError{UserID: user.ID}
		}
		return nil, r.mapWriteError(err, user)
	}
	return saved, nil
}

func (r *userRepository) mapWriteError(err error, user *domain.User) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case usersEmailIndex:
			return &domain.DuplicateEmailError{Email: user.Email}
		case usersPrimaryKey:
			return &domain.ConcurrentModificationError{UserID: user.ID}
		}
	}
	return fmt.Errorf("save user: %w", err)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.State,
		&user.RegistrationDate,
		&user.Version,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
