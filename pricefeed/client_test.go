package pricefeed

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
)

func newPriceServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(&bytes.Buffer{}) })
	return buf
}

func TestFetchEthUsdPrice(t *testing.T) {
	server := newPriceServer(t, http.StatusOK, `{"ethereum":{"usd":2500.12}}`)
	out := captureLog(t)

	price, ok := FetchEthUsdPrice(context.Background(), NewClient(Config{BaseURL: server.URL}))
	require.True(t, ok)
	assert.Equal(t, 2500.12, price)
	assert.Contains(t, out.String(), "Current ETH/USD Price: $2500.12")
}

func TestFetchEthUsdPriceMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `<html>oops</html>`,
		"missing asset": `{"bitcoin":{"usd":1}}`,
		"missing field": `{"ethereum":{}}`,
		"null price":    `{"ethereum":{"usd":null}}`,
		"string price":  `{"ethereum":{"usd":"2500"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := newPriceServer(t, http.StatusOK, body)
			out := captureLog(t)

			price, ok := FetchEthUsdPrice(context.Background(), NewClient(Config{BaseURL: server.URL}))
			assert.False(t, ok)
			assert.Zero(t, price)
			assert.Contains(t, out.String(), "Error fetching price")
		})
	}
}

func TestSimplePriceErrors(t *testing.T) {
	server := newPriceServer(t, http.StatusTooManyRequests, `{"status":{"error_code":429}}`)
	_, err := NewClient(Config{BaseURL: server.URL}).SimplePrice(context.Background(), "ethereum", "usd")
	assert.True(t, lerror.Is(err, lerror.NetworkFailure))

	server = newPriceServer(t, http.StatusOK, `{"ethereum":{}}`)
	_, err = NewClient(Config{BaseURL: server.URL}).SimplePrice(context.Background(), "ethereum", "usd")
	assert.True(t, lerror.Is(err, lerror.InvalidResponse))

	server = newPriceServer(t, http.StatusOK, `<html>oops</html>`)
	_, err = NewClient(Config{BaseURL: server.URL}).SimplePrice(context.Background(), "ethereum", "usd")
	assert.True(t, lerror.Is(err, lerror.InvalidResponse))
}

func TestSimplePriceUnreachable(t *testing.T) {
	server := newPriceServer(t, http.StatusOK, `{}`)
	url := server.URL
	server.Close()

	_, err := NewClient(Config{BaseURL: url}).SimplePrice(context.Background(), "ethereum", "usd")
	assert.True(t, lerror.Is(err, lerror.NetworkFailure))
}

func TestAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-key", r.Header.Get(apiKeyHeader))
		w.Write([]byte(`{"ethereum":{"usd":1}}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL, APIKey: "demo-key"}).SimplePrice(context.Background(), "ethereum", "usd")
	require.NoError(t, err)
}
