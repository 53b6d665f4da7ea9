package workflow

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/duongtuttbn/tokenkit/client_pool"
	"github.com/duongtuttbn/tokenkit/token"
	"github.com/duongtuttbn/tokenkit/wallet"
)

// EVMChain runs the workflow against a JSON-RPC node. One client is picked
// from the pool up front and used for the whole run so nonces stay consistent.
type EVMChain struct {
	pool       *client_pool.ClientPool
	client     *client_pool.Client
	artifact   *token.Artifact
	privateKey string
	chainID    int64
	signer     *wallet.Signer
}

func NewEVMChain(pool *client_pool.ClientPool, artifact *token.Artifact, privateKey string, chainID int64) (*EVMChain, error) {
	client, err := pool.GetClient()
	if err != nil {
		return nil, err
	}
	return &EVMChain{
		pool:       pool,
		client:     client,
		artifact:   artifact,
		privateKey: privateKey,
		chainID:    chainID,
	}, nil
}

func (c *EVMChain) Signer(ctx context.Context) (common.Address, error) {
	if c.signer == nil {
		signer, err := wallet.NewSigner(c.privateKey, c.chainID)
		if err != nil {
			return common.Address{}, err
		}
		c.signer = signer
	}
	return c.signer.Address(), nil
}

func (c *EVMChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return c.client.CodeAt(ctx, account, blockNumber)
}

func (c *EVMChain) Deploy(ctx context.Context, args ...interface{}) (Token, *types.Transaction, error) {
	if _, err := c.Signer(ctx); err != nil {
		return nil, nil, err
	}
	tok, tx, err := token.Deploy(ctx, c.client, c.signer, c.artifact, args...)
	if err != nil {
		return nil, nil, err
	}
	return tok, tx, nil
}

func (c *EVMChain) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return token.WaitMined(ctx, c.client, tx)
}

func (c *EVMChain) BlockTime(ctx context.Context, blockNumber uint64) (uint64, error) {
	return c.pool.BlockTime(ctx, blockNumber)
}

// Attach binds an existing deployment with the same signer
func (c *EVMChain) Attach(ctx context.Context, address common.Address) (*token.Token, error) {
	if _, err := c.Signer(ctx); err != nil {
		return nil, err
	}
	return token.Attach(address, c.client, c.signer, c.artifact), nil
}
