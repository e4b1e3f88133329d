package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"crypto_ramp_back/models"
)

const onramperNetwork = "morphl2"

type OnramperClient struct {
	client *resty.Client
}

func NewOnramperClient(baseURL, apiKey string) *OnramperClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json")
	return &OnramperClient{client: client}
}

func (o *OnramperClient) Name() Name { return Onramper }

type onramperQuoteResponse struct {
	CryptoAmount float64 `json:"cryptoAmount"`
	Fee          float64 `json:"fee"`
	TotalAmount  float64 `json:"totalAmount"`
	QuoteID      string  `json:"quoteId"`
}

func (o *OnramperClient) Quote(ctx context.Context, amount float64, fiatCurrency, cryptoCurrency string) (Quote, error) {
	var res onramperQuoteResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fiat":   fiatCurrency,
			"crypto": cryptoCurrency,
			"amount": fmt.Sprintf("%v", amount),
		}).
		SetResult(&res).
		Get("/quote")
	if err != nil {
		return Quote{}, wrapErr(Onramper, "quote", err)
	}
	if resp.IsError() {
		return Quote{}, wrapErr(Onramper, "quote", errors.Wrapf(models.ErrQuoteUnavailable, "status %d", resp.StatusCode()))
	}
	if res.TotalAmount == 0 {
		return Quote{}, wrapErr(Onramper, "quote", errors.Wrap(models.ErrQuoteUnavailable, "malformed body"))
	}

	return Quote{
		QuoteID:        res.QuoteID,
		FiatAmount:     amount,
		CryptoAmount:   res.CryptoAmount,
		Fee:            res.Fee,
		Total:          res.TotalAmount,
		FiatCurrency:   fiatCurrency,
		CryptoCurrency: cryptoCurrency,
	}, nil
}

type onramperCheckoutResponse struct {
	URL           string `json:"url"`
	TransactionID string `json:"transactionId"`
}

func (o *OnramperClient) ExecuteBuy(ctx context.Context, quoteID, walletAddress, fiatCurrency, cryptoCurrency string, amount float64) (BuyResult, error) {
	var res onramperCheckoutResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"amount":      amount,
			"currency":    fiatCurrency,
			"destination": walletAddress,
			"network":     onramperNetwork,
		}).
		SetResult(&res).
		Post("/checkout")
	if err != nil {
		return BuyResult{}, wrapErr(Onramper, "buy", err)
	}
	if resp.IsError() || res.TransactionID == "" {
		return BuyResult{}, wrapErr(Onramper, "buy", fmt.Errorf("status %d", resp.StatusCode()))
	}

	return BuyResult{ProviderTxID: res.TransactionID, WidgetURL: res.URL}, nil
}

// ExecuteSell is not offered by Onramper; sells are routed to MoonPay.
func (o *OnramperClient) ExecuteSell(ctx context.Context, quoteID, accountNumber, routingNumber, cryptoCurrency string) (SellResult, error) {
	return SellResult{}, wrapErr(Onramper, "sell", errors.New("sell is not supported"))
}

type onramperStatusResponse struct {
	Status string `json:"status"`
}

func (o *OnramperClient) Status(ctx context.Context, providerTxID string) (string, error) {
	var res onramperStatusResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetResult(&res).
		Get("/status/" + url.PathEscape(providerTxID))
	if err != nil {
		return "", wrapErr(Onramper, "status", err)
	}
	if resp.IsError() {
		return "", wrapErr(Onramper, "status", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return res.Status, nil
}
