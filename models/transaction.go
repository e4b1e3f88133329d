package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionTransfer TransactionType = "transfer"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// ValidTransition checks a status move: pending -> {processing, terminal},
// processing -> {completed, failed}. A record never re-enters pending.
func ValidTransition(from, to TransactionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCompleted || to == StatusFailed || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

type Transaction struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	UserID         uuid.UUID         `db:"user_id" json:"user_id"`
	Type           TransactionType   `db:"type" json:"type"`
	Status         TransactionStatus `db:"status" json:"status"`
	AmountFiat     *float64          `db:"amount_fiat" json:"amount_fiat,omitempty"`
	AmountCrypto   float64           `db:"amount_crypto" json:"amount_crypto"`
	CurrencyFiat   *string           `db:"currency_fiat" json:"currency_fiat,omitempty"`
	CurrencyCrypto string            `db:"currency_crypto" json:"currency_crypto"`
	Provider       string            `db:"provider" json:"provider"`
	ProviderTxID   *string           `db:"provider_tx_id" json:"provider_tx_id,omitempty"` // NULL until the provider answers
	BlockchainHash *string           `db:"blockchain_tx_hash" json:"blockchain_tx_hash,omitempty"`
	Fees           types.JSONText    `db:"fees" json:"fees,omitempty"`
	Metadata       types.JSONText    `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// TransactionUpdate is a partial update; nil fields are left untouched.
type TransactionUpdate struct {
	Status         *TransactionStatus
	ProviderTxID   *string
	BlockchainHash *string
	Fees           types.JSONText
	Metadata       types.JSONText
}

type InitiateBuyInput struct {
	AmountFiat     float64 `json:"amount_fiat" binding:"required"`
	CurrencyFiat   string  `json:"currency_fiat" binding:"required"`
	CurrencyCrypto string  `json:"currency_crypto" binding:"required"`
	Provider       string  `json:"provider" binding:"required"`
}

type InitiateSellInput struct {
	AmountCrypto   float64 `json:"amount_crypto" binding:"required"`
	CurrencyCrypto string  `json:"currency_crypto" binding:"required"`
	AccountNumber  string  `json:"account_number" binding:"required"`
	RoutingNumber  string  `json:"routing_number" binding:"required"`
	WalletAddress  string  `json:"wallet_address"`
	BlockchainHash string  `json:"blockchain_tx_hash"`
}
