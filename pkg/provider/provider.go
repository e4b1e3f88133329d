package provider

import (
	"context"
	"fmt"

	"crypto_ramp_back/models"
)

type Name string

const (
	Moonpay  Name = "moonpay"
	Onramper Name = "onramper"
)

func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Moonpay, Onramper:
		return Name(s), nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", models.ErrInvalidInput, s)
	}
}

type Quote struct {
	QuoteID        string  `json:"quote_id"`
	FiatAmount     float64 `json:"fiat_amount"`
	CryptoAmount   float64 `json:"crypto_amount"`
	Fee            float64 `json:"fee"`
	Total          float64 `json:"total"`
	FiatCurrency   string  `json:"fiat_currency"`
	CryptoCurrency string  `json:"crypto_currency"`
}

type BuyResult struct {
	ProviderTxID string `json:"provider_tx_id"`
	WidgetURL    string `json:"widget_url"`
}

type SellResult struct {
	ProviderTxID   string `json:"provider_tx_id"`
	DepositAddress string `json:"deposit_address"`
}

// Gateway is the capability shared by the exchange providers. Selection is by
// typed Name, never by string comparison at call sites.
type Gateway interface {
	Name() Name
	Quote(ctx context.Context, amount float64, fiatCurrency, cryptoCurrency string) (Quote, error)
	ExecuteBuy(ctx context.Context, quoteID, walletAddress, fiatCurrency, cryptoCurrency string, amount float64) (BuyResult, error)
	ExecuteSell(ctx context.Context, quoteID, accountNumber, routingNumber, cryptoCurrency string) (SellResult, error)
	Status(ctx context.Context, providerTxID string) (string, error)
}

// Error wraps any provider-side failure with the provider name and the
// original message. No automatic retry happens at this layer.
type Error struct {
	Provider Name
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(name Name, op string, err error) error {
	return &Error{Provider: name, Op: op, Err: err}
}

type Registry struct {
	gateways map[Name]Gateway
}

func NewRegistry(gws ...Gateway) *Registry {
	r := &Registry{gateways: make(map[Name]Gateway)}
	for _, gw := range gws {
		r.gateways[gw.Name()] = gw
	}
	return r
}

func (r *Registry) Get(name Name) (Gateway, error) {
	gw, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("%w: provider %s is not configured", models.ErrInvalidInput, name)
	}
	return gw, nil
}
