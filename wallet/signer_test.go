package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duongtuttbn/tokenkit/lerror"
)

// well known hardhat account #0
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewSigner(t *testing.T) {
	s, err := NewSigner(testKey, 31337)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", s.Address().Hex())
	assert.Equal(t, int64(31337), s.ChainID().Int64())

	opts, err := s.TransactOpts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.Address(), opts.From)
	assert.NotNil(t, opts.Context)
}

func TestNewSignerMissingKey(t *testing.T) {
	_, err := NewSigner("  ", 1)
	assert.True(t, lerror.Is(err, lerror.MissingConfig))
}

func TestNewSignerInvalidKey(t *testing.T) {
	_, err := NewSigner("0x1234", 1)
	assert.True(t, lerror.Is(err, lerror.MissingConfig))
}
