package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"crypto_ramp_back/internal/wallet"
	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/repository"
)

const minPasswordLen = 8

type AuthService struct {
	repos      repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repos repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repos:      repos,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// SignUp registers a user and derives a custodial account address for them.
// Only the address is stored; the throwaway key never leaves this call.
func (s *AuthService) SignUp(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: invalid email", models.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "failed to hash password")
	}

	account, err := wallet.GenerateAccount()
	if err != nil {
		return models.User{}, errors.Wrap(err, "failed to derive account address")
	}

	user := models.User{
		ID:                  uuid.New(),
		Email:               email,
		PasswordHash:        string(hash),
		SmartAccountAddress: &account.Address,
	}
	return s.repos.CreateUser(user)
}

func (s *AuthService) SignIn(email, password string) (models.User, string, error) {
	user, err := s.repos.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, "", models.ErrUnauthorized
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", models.ErrUnauthorized
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return models.User{}, "", errors.Wrap(err, "failed to sign token")
	}
	return user, signed, nil
}

func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, models.ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, models.ErrUnauthorized
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, models.ErrUnauthorized
	}
	return userID, nil
}

func (s *AuthService) GetUser(id uuid.UUID) (models.User, error) {
	return s.repos.GetUserByID(id)
}
