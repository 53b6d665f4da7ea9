package client_pool

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const unavailableFor = 15 * time.Second

type Client struct {
	*ethclient.Client
	lastErr     error
	availableAt time.Time
	mu          sync.Mutex
	endpoint    string
}

// NewClient initialize new http or universal client based on the given parameters
func NewClient(ctx context.Context, endpoint, proxyURL string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse endpoint to url")
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(ctx, endpoint, proxyURL)
	default:
		return NewUniversalClient(ctx, endpoint)
	}
}

func NewUniversalClient(ctx context.Context, endpoint string) (*Client, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "unable to dial endpoint with eth client")
	}
	return &Client{
		Client:      ethclient.NewClient(client),
		availableAt: time.Now(),
		endpoint:    endpoint,
	}, nil
}

func NewHTTPClient(ctx context.Context, endpoint string, proxyURL string) (*Client, error) {
	httpClient := &http.Client{}
	if proxyURL != "" {
		proxyUrl, err := url.Parse(proxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse proxyURL to url")
		}
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyUrl)}
	}
	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.Wrap(err, "unable to dial endpoint with rpc")
	}

	return &Client{
		Client:      ethclient.NewClient(client),
		availableAt: time.Now(),
		endpoint:    endpoint,
	}, nil
}

// IsAvailable let you know that the client is available for use or not
func (c *Client) IsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil || time.Now().After(c.availableAt) {
		c.lastErr = nil
		return true
	}
	return false
}

// MarkError takes the client out of rotation for a short while
func (c *Client) MarkError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	c.availableAt = time.Now().Add(unavailableFor)
}

func (c *Client) EndpointURL() string {
	return c.endpoint
}
