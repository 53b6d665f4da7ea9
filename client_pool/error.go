package client_pool

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
)

var ErrNoClientAvailable = errors.New("all rpc clients are down")

func isRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == -32429 {
		return true
	}
	return strings.Contains(err.Error(), "Exceeded the quota usage") ||
		strings.Contains(err.Error(), "limit exceeded") ||
		strings.Contains(err.Error(), "exceeded limit") ||
		strings.Contains(err.Error(), "Unable to perform request") ||
		strings.Contains(err.Error(), "order a dedicated full node")
}

// networkError tags err as a transport failure and marks the client so the
// next GetClient prefers another endpoint
func networkError(client *Client, err error, msg string) error {
	if isRateLimit(err) {
		client.MarkError(err)
	}
	return errors.Wrapf(lerror.NetworkFailure.ToError(err.Error()), "%s, client endpoint: %s", msg, client.endpoint)
}
