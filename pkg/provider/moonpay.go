package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"crypto_ramp_back/models"
)

const moonpayNetwork = "morphl2"

type MoonpayClient struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

func NewMoonpayClient(baseURL, apiKey string) *MoonpayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Authorization", "Api-Key "+apiKey).
		SetHeader("Content-Type", "application/json")
	return &MoonpayClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

func (m *MoonpayClient) Name() Name { return Moonpay }

type moonpayQuoteResponse struct {
	ID                  string  `json:"id"`
	BaseCurrencyAmount  float64 `json:"baseCurrencyAmount"`
	QuoteCurrencyAmount float64 `json:"quoteCurrencyAmount"`
	FeeAmount           float64 `json:"feeAmount"`
	TotalAmount         float64 `json:"totalAmount"`
}

func (m *MoonpayClient) Quote(ctx context.Context, amount float64, fiatCurrency, cryptoCurrency string) (Quote, error) {
	var res moonpayQuoteResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":           m.apiKey,
			"baseCurrencyCode": strings.ToLower(fiatCurrency),
			"currencyCode":     strings.ToLower(cryptoCurrency),
			"amount":           fmt.Sprintf("%v", amount),
		}).
		SetResult(&res).
		Get("/v3/quote")
	if err != nil {
		return Quote{}, wrapErr(Moonpay, "quote", err)
	}
	if resp.IsError() {
		return Quote{}, wrapErr(Moonpay, "quote", errors.Wrapf(models.ErrQuoteUnavailable, "status %d", resp.StatusCode()))
	}
	if res.ID == "" {
		return Quote{}, wrapErr(Moonpay, "quote", errors.Wrap(models.ErrQuoteUnavailable, "malformed body"))
	}

	return Quote{
		QuoteID:        res.ID,
		FiatAmount:     res.BaseCurrencyAmount,
		CryptoAmount:   res.QuoteCurrencyAmount,
		Fee:            res.FeeAmount,
		Total:          res.TotalAmount,
		FiatCurrency:   fiatCurrency,
		CryptoCurrency: cryptoCurrency,
	}, nil
}

type moonpayBuyResponse struct {
	TransactionID string `json:"transactionId"`
}

func (m *MoonpayClient) ExecuteBuy(ctx context.Context, quoteID, walletAddress, fiatCurrency, cryptoCurrency string, amount float64) (BuyResult, error) {
	var res moonpayBuyResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"quoteId":            quoteID,
			"walletAddress":      walletAddress,
			"currencyCode":       strings.ToLower(cryptoCurrency),
			"baseCurrencyCode":   strings.ToLower(fiatCurrency),
			"baseCurrencyAmount": amount,
			"network":            moonpayNetwork,
		}).
		SetResult(&res).
		Post("/v3/buy")
	if err != nil {
		return BuyResult{}, wrapErr(Moonpay, "buy", err)
	}
	if resp.IsError() || res.TransactionID == "" {
		return BuyResult{}, wrapErr(Moonpay, "buy", fmt.Errorf("status %d", resp.StatusCode()))
	}

	// Payment finishes inside the MoonPay widget, off our critical path.
	widget := fmt.Sprintf("https://buy.moonpay.com/?apiKey=%s&currencyCode=%s&walletAddress=%s&baseCurrencyCode=%s&baseCurrencyAmount=%v",
		url.QueryEscape(m.apiKey), strings.ToLower(cryptoCurrency), url.QueryEscape(walletAddress), strings.ToLower(fiatCurrency), amount)

	return BuyResult{ProviderTxID: res.TransactionID, WidgetURL: widget}, nil
}

type moonpaySellResponse struct {
	TransactionID  string `json:"transactionId"`
	DepositAddress string `json:"depositAddress"`
}

func (m *MoonpayClient) ExecuteSell(ctx context.Context, quoteID, accountNumber, routingNumber, cryptoCurrency string) (SellResult, error) {
	var res moonpaySellResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"quoteId": quoteID,
			"bankDetails": map[string]string{
				"accountNumber": accountNumber,
				"routingNumber": routingNumber,
			},
			"currencyCode": strings.ToLower(cryptoCurrency),
			"network":      moonpayNetwork,
		}).
		SetResult(&res).
		Post("/v3/sell")
	if err != nil {
		return SellResult{}, wrapErr(Moonpay, "sell", err)
	}
	if resp.IsError() || res.TransactionID == "" {
		return SellResult{}, wrapErr(Moonpay, "sell", fmt.Errorf("status %d", resp.StatusCode()))
	}

	return SellResult{ProviderTxID: res.TransactionID, DepositAddress: res.DepositAddress}, nil
}

type moonpayStatusResponse struct {
	Status string `json:"status"`
}

func (m *MoonpayClient) Status(ctx context.Context, providerTxID string) (string, error) {
	var res moonpayStatusResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetResult(&res).
		Get("/v3/transactions/" + url.PathEscape(providerTxID))
	if err != nil {
		return "", wrapErr(Moonpay, "status", err)
	}
	if resp.IsError() {
		return "", wrapErr(Moonpay, "status", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return res.Status, nil
}
