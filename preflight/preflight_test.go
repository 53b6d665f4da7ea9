package preflight

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/duongtuttbn/tokenkit/lerror"
)

type codeMap struct {
	mu    sync.Mutex
	code  map[common.Address][]byte
	err   error
	calls int
}

func (c *codeMap) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.code[account], nil
}

var (
	feed   = common.HexToAddress("0xEe9F2375b4bdF6387aa8265dD4FB8F16512A1d46")
	router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
)

func TestCheckContracts(t *testing.T) {
	reader := &codeMap{code: map[common.Address][]byte{feed: {0x60}, router: {0x60, 0x80}}}

	assert.NoError(t, CheckContracts(context.Background(), reader, feed, router))
	assert.Equal(t, 2, reader.calls)
}

func TestCheckContractsEmptyCode(t *testing.T) {
	reader := &codeMap{code: map[common.Address][]byte{feed: {0x60}}}

	err := CheckContracts(context.Background(), reader, feed, router)
	assert.True(t, lerror.Is(err, lerror.MissingConfig))
	assert.Contains(t, err.Error(), router.Hex())
}

func TestCheckContractsLookupError(t *testing.T) {
	reader := &codeMap{err: errors.New("connection refused")}

	err := CheckContracts(context.Background(), reader, feed)
	assert.True(t, lerror.Is(err, lerror.NetworkFailure))
}

func TestCheckContractsNothingToCheck(t *testing.T) {
	assert.NoError(t, CheckContracts(context.Background(), &codeMap{}))
}
