package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The caller passes the bcrypt hash in
// user.Password; ID and timestamps are filled in on the way back.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, password, bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByID retrieves a user by id. Returns apperror.ErrNotFound with the
// user-specific message if no row matches.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password, bio, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// GetUserByEmail retrieves a user by email address, for credential
// verification.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password, bio, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &u, nil
}

// EmailTaken reports whether a user other than excludeID holds the address.
// excludeID = 0 means "no exclusion" (registration); on profile update the
// acting user's own row is excluded so they can keep their current email.
func (db *DB) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`,
		email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email uniqueness: %w", err)
	}
	return count > 0, nil
}

// ListUsers returns one page of users ordered by id ascending, plus the total
// user count for the page envelope.
func (db *DB) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting users: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, password, bio, created_at, updated_at
		 FROM users
		 ORDER BY id ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, opts.Limit)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password,
			&u.Bio, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, total, nil
}

// UpdateUser writes the mutable profile fields. The password column is not
// touched here, see UpdateUserPassword.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET first_name = ?, last_name = ?, email = ?, bio = ?, updated_at = ?
		 WHERE id = ?`,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Bio,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}

// UpdateUserPassword replaces the stored bcrypt hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}
