package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/poller"
	"crypto_ramp_back/pkg/provider"
	"crypto_ramp_back/pkg/repository"
)

type Authorization interface {
	SignUp(email, password string) (models.User, error)
	SignIn(email, password string) (models.User, string, error)
	ParseToken(tokenString string) (uuid.UUID, error)
	GetUser(id uuid.UUID) (models.User, error)
}

type Rates interface {
	GetRate(ctx context.Context, symbol string) (models.RateQuote, error)
}

type Ramp interface {
	InitiateBuy(ctx context.Context, userID uuid.UUID, input models.InitiateBuyInput) (models.Transaction, string, error)
	InitiateSell(ctx context.Context, userID uuid.UUID, input models.InitiateSellInput) (models.Transaction, string, error)
	GetTransactions(userID uuid.UUID) ([]models.Transaction, error)
	UpdateStatus(userID, id uuid.UUID, status models.TransactionStatus) (models.Transaction, error)
	HandleWebhook(providerTxID string, providerStatus string) error
}

type Service struct {
	Authorization
	Rates
	Ramp
}

type Options struct {
	CoinGeckoURL    string
	CoinGeckoAPIKey string
	Fiat            string
	RateCacheTTL    time.Duration
	FeePercent      float64
	SigningKey      string
	TokenTTL        time.Duration
}

func NewService(repos *repository.Repository, providers *provider.Registry, pol *poller.Poller, opts Options) *Service {
	rates := NewRatesService(opts.CoinGeckoURL, opts.CoinGeckoAPIKey, opts.Fiat, opts.RateCacheTTL)
	calc := NewSettlementCalculator(opts.FeePercent)
	return &Service{
		Authorization: NewAuthService(repos.Authorization, opts.SigningKey, opts.TokenTTL),
		Rates:         rates,
		Ramp:          NewRampService(repos, rates, calc, providers, pol, opts.Fiat),
	}
}
