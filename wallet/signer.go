package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
)

type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// NewSigner parses a hex private key, with or without 0x
func NewSigner(privateKeyHex string, chainID int64) (*Signer, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex == "" {
		return nil, lerror.MissingConfig.ToError("PRIVATE_KEY is not set")
	}
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(lerror.MissingConfig.ToError(err.Error()), "invalid private key")
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: big.NewInt(chainID),
	}, nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// TransactOpts builds fresh options per transaction so nonce and gas are
// estimated by the backend every time
func (s *Signer) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create transactor")
	}
	opts.Context = ctx
	return opts, nil
}
