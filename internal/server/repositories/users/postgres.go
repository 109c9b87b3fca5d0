// Package users provides the PostgreSQL-backed credential store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/dbx"
	"github.com/dmitrijs2005/assistant/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in ID and CreatedAt. Uniqueness violations
// are reported as common.ErrDuplicateUsername or common.ErrDuplicateEmail,
// any other integrity violation as common.ErrRegistrationFailed.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password_hash, password_salt, password_scheme)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash, user.PasswordSalt, user.PasswordScheme).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, classifyCreateError(err)
	}

	return user, nil
}

func classifyCreateError(err error) error {
	if constraint, ok := dbx.IsUniqueViolation(err); ok {
		c := strings.ToLower(constraint)
		switch {
		case strings.Contains(c, "username"):
			return fmt.Errorf("%w: %v", common.ErrDuplicateUsername, err)
		case strings.Contains(c, "email"):
			return fmt.Errorf("%w: %v", common.ErrDuplicateEmail, err)
		}
	}
	if dbx.IsIntegrityViolation(err) {
		return fmt.Errorf("%w: %v", common.ErrRegistrationFailed, err)
	}
	return fmt.Errorf("db error: %w", err)
}

const selectUser = `SELECT id, username, email, password_hash, password_salt, password_scheme, created_at, last_login FROM users`

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`
		 WHERE username = $1
		 `, userName)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`
		 WHERE email = $1
		 `, email)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+`
		 WHERE id = $1
		 `, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.PasswordSalt,
		&user.PasswordScheme, &user.CreatedAt, &lastLogin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}

	return user, nil
}

// UpdateLastLogin stamps last_login with the database clock and returns it.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id int64) (time.Time, error) {
	query :=
		`UPDATE users SET last_login = now()
		 WHERE id = $1
		 RETURNING last_login
		 `

	var lastLogin time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&lastLogin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return lastLogin, nil
}
