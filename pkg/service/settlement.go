package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"crypto_ramp_back/models"
)

// DefaultFeePercent is the platform cut taken on every buy and sell.
const DefaultFeePercent = 1.5

const (
	fiatScale   int32 = 2
	cryptoScale int32 = 6
	// BTC amounts carry more precision because of its unit value.
	btcScale int32 = 8
)

// SettlementCalculator is pure and deterministic: amounts go through
// decimal arithmetic, float64 only at the display boundary.
type SettlementCalculator struct {
	feePct decimal.Decimal // fraction, e.g. 0.015
}

func NewSettlementCalculator(feePercent float64) *SettlementCalculator {
	if feePercent <= 0 {
		feePercent = DefaultFeePercent
	}
	return &SettlementCalculator{
		feePct: decimal.NewFromFloat(feePercent).Div(decimal.NewFromInt(100)),
	}
}

func scaleFor(cryptoSymbol string) int32 {
	if strings.EqualFold(cryptoSymbol, "BTC") {
		return btcScale
	}
	return cryptoScale
}

// SellQuote prices a crypto->fiat conversion: gross fiat at the spot rate,
// fee deducted from the fiat leg, fee also expressed in source units for
// display. Zero or negative inputs yield an all-zero settlement.
func (c *SettlementCalculator) SellQuote(amountCrypto, rate float64, cryptoSymbol string) models.Settlement {
	if amountCrypto <= 0 || rate <= 0 {
		return models.Settlement{}
	}

	scale := scaleFor(cryptoSymbol)
	amount := decimal.NewFromFloat(amountCrypto)
	spot := decimal.NewFromFloat(rate)

	grossFiat := amount.Mul(spot)
	feeFiat := grossFiat.Mul(c.feePct)
	netFiat := grossFiat.Sub(feeFiat)
	feeCrypto := amount.Mul(c.feePct)

	return models.Settlement{
		GrossFiat:   grossFiat.Round(fiatScale).InexactFloat64(),
		FeeFiat:     feeFiat.Round(fiatScale).InexactFloat64(),
		NetFiat:     netFiat.Round(fiatScale).InexactFloat64(),
		GrossCrypto: amount.Round(scale).InexactFloat64(),
		FeeCrypto:   feeCrypto.Round(scale).InexactFloat64(),
		NetCrypto:   amount.Sub(feeCrypto).Round(scale).InexactFloat64(),
		FeePercent:  c.feePct.Mul(decimal.NewFromInt(100)).InexactFloat64(),
	}
}

// BuyQuote prices a fiat->crypto conversion: gross crypto at the spot rate,
// fee taken as a percentage of the crypto leg.
func (c *SettlementCalculator) BuyQuote(amountFiat, rate float64, cryptoSymbol string) models.Settlement {
	if amountFiat <= 0 || rate <= 0 {
		return models.Settlement{}
	}

	scale := scaleFor(cryptoSymbol)
	amount := decimal.NewFromFloat(amountFiat)
	spot := decimal.NewFromFloat(rate)

	grossCrypto := amount.Div(spot)
	feeCrypto := grossCrypto.Mul(c.feePct)
	netCrypto := grossCrypto.Sub(feeCrypto)

	return models.Settlement{
		GrossFiat:   amount.Round(fiatScale).InexactFloat64(),
		GrossCrypto: grossCrypto.Round(scale).InexactFloat64(),
		FeeCrypto:   feeCrypto.Round(scale).InexactFloat64(),
		NetCrypto:   netCrypto.Round(scale).InexactFloat64(),
		FeePercent:  c.feePct.Mul(decimal.NewFromInt(100)).InexactFloat64(),
	}
}
