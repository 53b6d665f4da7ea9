package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
)

type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type TransactOpter interface {
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Token is a deployed TetherToken
type Token struct {
	address  common.Address
	contract *bind.BoundContract
	signer   TransactOpter
}

// Deploy sends the creation transaction. It does not wait for inclusion.
func Deploy(ctx context.Context, backend Backend, signer TransactOpter, artifact *Artifact, args ...interface{}) (*Token, *types.Transaction, error) {
	opts, err := signer.TransactOpts(ctx)
	if err != nil {
		return nil, nil, err
	}
	address, tx, contract, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to deploy %s", artifact.ContractName)
	}
	return &Token{address: address, contract: contract, signer: signer}, tx, nil
}

// Attach binds an already deployed contract
func Attach(address common.Address, backend Backend, signer TransactOpter, artifact *Artifact) *Token {
	contract := bind.NewBoundContract(address, artifact.ABI, backend, backend, backend)
	return &Token{address: address, contract: contract, signer: signer}
}

// WaitMined blocks until tx is included and fails if it reverted
func WaitMined(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, errors.Wrap(lerror.NetworkFailure.ToError(err.Error()), "wait mined "+tx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, lerror.TxReverted.ToError("transaction " + tx.Hash().Hex() + " reverted")
	}
	return receipt, nil
}

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) LatestUsdtEthPrice(ctx context.Context) (*big.Int, error) {
	return t.callBigInt(ctx, "getLatestUsdtEthPrice")
}

func (t *Token) LatestUsdtUsdPrice(ctx context.Context) (*big.Int, error) {
	return t.callBigInt(ctx, "getLatestUsdtUsdPrice")
}

func (t *Token) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	return t.callBigInt(ctx, "balanceOf", holder)
}

func (t *Token) Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.transact(ctx, "mint", to, amount)
}

func (t *Token) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.transact(ctx, "transfer", to, amount)
}

func (t *Token) callBigInt(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	if len(out) == 0 {
		return nil, lerror.InvalidResponse.ToError(method + " returned nothing")
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, lerror.InvalidResponse.ToError(method + " did not return an integer")
	}
	return value, nil
}

func (t *Token) transact(ctx context.Context, method string, params ...interface{}) (*types.Transaction, error) {
	opts, err := t.signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := t.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, errors.Wrapf(err, "send %s", method)
	}
	return tx, nil
}
