package models

import "time"

// RateQuote is ephemeral: fetched at submission time, kept only inside the
// transaction metadata snapshot.
type RateQuote struct {
	Crypto    string    `json:"fromCurrency"`
	Fiat      string    `json:"toCurrency"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Settlement is the fee breakdown for one submission. Fiat legs are rounded
// to 2 decimal places, crypto legs to 6 (8 for BTC).
type Settlement struct {
	GrossFiat   float64 `json:"gross_fiat"`
	FeeFiat     float64 `json:"fee_fiat"`
	NetFiat     float64 `json:"net_fiat"`
	GrossCrypto float64 `json:"gross_crypto"`
	FeeCrypto   float64 `json:"fee_crypto"`
	NetCrypto   float64 `json:"net_crypto"`
	FeePercent  float64 `json:"fee_percent"`
}
