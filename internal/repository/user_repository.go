package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/barbershop-admin/internal/model"
	"github.com/iliyamo/barbershop-admin/internal/utils"
)

// UserRepo looks up and seeds dashboard operator accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByEmail fetches a user by normalized email. Sign-in is the only read
// path on this table.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	return u, err
}

// Create hashes the password and inserts a user, returning its generated
// ID. There is no public sign-up endpoint; operator accounts are
// provisioned at seed time.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)`,
		id, name, email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}
