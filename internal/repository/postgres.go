package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/userhub/userhub/internal/apperr"
	"github.com/userhub/userhub/internal/model"
)

// PostgresRepository is a UserRepository backed by PostgreSQL. The email
// uniqueness guarantee comes from the unique constraint on users.email;
// constraint violations are translated to apperr.AlreadyExistsError.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresRepository with a connection pool.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// Create inserts a new user. The unique constraint on email makes the
// uniqueness check and the insert atomic without an explicit transaction.
func (r *PostgresRepository) Create(ctx context.Context, email, name string) (*model.User, error) {
	user := model.NewUser(email, name)

	query := `
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.AlreadyExists(email)
		}
		return nil, apperr.Storage("failed to create user", err)
	}

	return user, nil
}

// FindByID retrieves a user by ID, or nil if absent.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage("failed to get user by ID", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email, or nil if absent.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage("failed to get user by email", err)
	}

	return user, nil
}

// FindAll retrieves all users ordered by ID.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM users
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperr.Storage("failed to list users", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Storage("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating users", err)
	}

	return users, nil
}

// Update applies a partial update inside a transaction. The target row is
// locked with FOR UPDATE so the read-modify-write is atomic; the unique
// constraint backstops the email collision check.
func (r *PostgresRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(id)
		}
		return nil, apperr.Storage("failed to get user for update", err)
	}

	user.Apply(update)

	_, err = tx.Exec(ctx,
		`UPDATE users SET email = $2, name = $3, updated_at = $4 WHERE id = $1`,
		user.ID,
		user.Email,
		user.Name,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.AlreadyExists(user.Email)
		}
		return nil, apperr.Storage("failed to update user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage("failed to commit update", err)
	}

	return user, nil
}

// Delete permanently removes a user by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("failed to delete user", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(id)
	}
	return nil
}

// ExistsByEmail checks email existence without fetching the row.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, apperr.Storage("failed to check email existence", err)
	}
	return exists, nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation checks for PostgreSQL error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
