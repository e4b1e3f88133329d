package models

import (
	"time"

	"github.com/google/uuid"
)

// BankDetail holds the payout destination for a sell. One row per sell
// transaction, keyed by the transaction id, written once and never updated.
type BankDetail struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	AccountNumber    string    `db:"account_number" json:"account_number"`
	RoutingNumber    string    `db:"routing_number" json:"routing_number"`
	ReferenceCode    string    `db:"reference_code" json:"reference_code"`
	EncryptedDetails *string   `db:"encrypted_details" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Bank is an entry of the static directory served by GET /api/banks.
type Bank struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}
