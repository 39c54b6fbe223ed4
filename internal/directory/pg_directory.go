package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"magiclink-service/internal/db"

	"github.com/lib/pq"
)

// unique_violation
const pqUniqueViolation = "23505"

// PGDirectory resolves users against Postgres. This is the canonical
// directory implementation.
type PGDirectory struct {
	db *db.DB
}

func NewPGDirectory(db *db.DB) *PGDirectory {
	return &PGDirectory{db: db}
}

func (d *PGDirectory) FindOrCreate(ctx context.Context, email string) (int64, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return 0, errors.New("directory: empty email")
	}

	// 1. Try existing user
	userID, err := d.findByEmail(ctx, email)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("directory: lookup: %w", err)
	}

	// 2. Create new user
	err = d.db.QueryRowContext(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		RETURNING id
	`, email).Scan(&userID)

	if err == nil {
		return userID, nil
	}

	// 3. A concurrent request may have inserted the same address
	// between the lookup and the insert. Retry the lookup once.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		userID, err = d.findByEmail(ctx, email)
		if err != nil {
			return 0, fmt.Errorf("directory: lookup after conflict: %w", err)
		}
		return userID, nil
	}

	return 0, fmt.Errorf("directory: create: %w", err)
}

func (d *PGDirectory) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, email FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("directory: lookup by id: %w", err)
	}

	return &u, nil
}

func (d *PGDirectory) findByEmail(ctx context.Context, email string) (int64, error) {
	var userID int64
	err := d.db.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)
	return userID, err
}
