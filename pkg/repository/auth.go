package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"crypto_ramp_back/models"
)

type AuthPostgres struct {
	db *sqlx.DB
}

func NewAuthPostgres(db *sqlx.DB) *AuthPostgres {
	return &AuthPostgres{db: db}
}

func (r *AuthPostgres) CreateUser(user models.User) (models.User, error) {
	query := `
        INSERT INTO users (id, email, password_hash, smart_account_address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, email, password_hash, smart_account_address, created_at, updated_at
    `
	var created models.User
	err := r.db.Get(&created, query, user.ID, user.Email, user.PasswordHash, user.SmartAccountAddress)
	if err != nil {
		return models.User{}, errors.Wrap(err, "failed to insert user")
	}
	return created, nil
}

func (r *AuthPostgres) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, smart_account_address, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.Get(&user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return user, err
}

func (r *AuthPostgres) GetUserByID(id uuid.UUID) (models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, smart_account_address, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return user, err
}
