package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/cache"
)

// coinGeckoIDs is the supported asset set. Anything else fails before any
// network call is made.
var coinGeckoIDs = map[string]string{
	"USDC": "usd-coin",
	"ETH":  "ethereum",
	"BTC":  "bitcoin",
}

type RatesService struct {
	client *resty.Client
	apiKey string
	fiat   string
}

func NewRatesService(baseURL, apiKey, fiat string, cacheTTL time.Duration) *RatesService {
	if fiat == "" {
		fiat = "NGN"
	}
	cache.SetTTL(cacheTTL)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &RatesService{
		client: client,
		apiKey: apiKey,
		fiat:   strings.ToUpper(fiat),
	}
}

// GetRate returns the spot price of one unit of the asset in the platform
// fiat currency. A zero rate is treated as a failed fetch, never a price.
func (s *RatesService) GetRate(ctx context.Context, symbol string) (models.RateQuote, error) {
	sym := strings.ToUpper(symbol)
	coinID, ok := coinGeckoIDs[sym]
	if !ok {
		return models.RateQuote{}, fmt.Errorf("%w: %s (supported: USDC, ETH, BTC)", models.ErrUnsupportedAsset, symbol)
	}

	fiatLower := strings.ToLower(s.fiat)
	key := coinID + "_" + fiatLower

	if rate, found := cache.GetCachedRate(key); found {
		return models.RateQuote{
			Crypto:    sym,
			Fiat:      s.fiat,
			Rate:      rate,
			FetchedAt: time.Now().UTC(),
			Source:    "cache",
		}, nil
	}

	logrus.Infof("fetching CoinGecko rate for %s/%s", sym, s.fiat)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-cg-demo-api-key", s.apiKey).
		SetQueryParam("ids", coinID).
		SetQueryParam("vs_currencies", fiatLower).
		SetResult(map[string]map[string]float64{}).
		Get("/api/v3/simple/price")
	if err != nil {
		return models.RateQuote{}, errors.Wrap(models.ErrRateUnavailable, err.Error())
	}
	if resp.IsError() {
		return models.RateQuote{}, errors.Wrapf(models.ErrRateUnavailable, "CoinGecko status %d", resp.StatusCode())
	}

	data := *resp.Result().(*map[string]map[string]float64)
	rate := data[coinID][fiatLower]
	if rate == 0 {
		return models.RateQuote{}, errors.Wrap(models.ErrRateUnavailable, "rate missing in response")
	}

	cache.SetCachedRate(key, rate)

	return models.RateQuote{
		Crypto:    sym,
		Fiat:      s.fiat,
		Rate:      rate,
		FetchedAt: time.Now().UTC(),
		Source:    "coingecko",
	}, nil
}
