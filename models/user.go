package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Email               string    `json:"email" db:"email"`
	PasswordHash        string    `json:"-" db:"password_hash"`
	SmartAccountAddress *string   `json:"smart_account_address,omitempty" db:"smart_account_address"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

type AuthInput struct {
	Action   string `json:"action" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
