package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
)

const (
	AssetEthereum = "ethereum"
	CurrencyUSD   = "usd"

	defaultTimeout = 30 * time.Second
	apiKeyHeader   = "x-cg-demo-api-key"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	rest *resty.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		rest.SetHeader(apiKeyHeader, cfg.APIKey)
	}
	return &Client{rest: rest}
}

// SimplePrice returns the price of asset id in currency, read from a
// `{ <id>: { <currency>: number } }` response
func (c *Client) SimplePrice(ctx context.Context, id, currency string) (float64, error) {
	res, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": currency,
		}).
		ForceContentType("application/json").
		SetResult(&map[string]map[string]*float64{}).
		Get("/simple/price")
	if err != nil {
		if res != nil && res.RawResponse != nil {
			return 0, errors.Wrap(lerror.InvalidResponse.ToError(err.Error()), "unable to decode price response")
		}
		return 0, errors.Wrap(lerror.NetworkFailure.ToError(err.Error()), "price request failed")
	}
	if res.IsError() {
		return 0, lerror.NetworkFailure.ToError(fmt.Sprintf("price api returned %d: %s", res.StatusCode(), res.String()))
	}

	body := *res.Result().(*map[string]map[string]*float64)
	price := body[id][currency]
	if price == nil {
		return 0, lerror.InvalidResponse.ToError(fmt.Sprintf("price response has no %s.%s", id, currency))
	}
	return *price, nil
}

// FetchEthUsdPrice logs the current ETH/USD price and returns it. Failures are
// logged and reported through ok only.
func FetchEthUsdPrice(ctx context.Context, c *Client) (price float64, ok bool) {
	price, err := c.SimplePrice(ctx, AssetEthereum, CurrencyUSD)
	if err != nil {
		log.WithError(err).Error("Error fetching price")
		return 0, false
	}
	log.Infof("Current ETH/USD Price: $%v", price)
	return price, true
}
