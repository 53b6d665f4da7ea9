package workflow

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/config"
	"github.com/duongtuttbn/tokenkit/log"
	"github.com/duongtuttbn/tokenkit/model"
	"github.com/duongtuttbn/tokenkit/preflight"
	"github.com/duongtuttbn/tokenkit/utils"
)

// Chain is the network side of a deployment
type Chain interface {
	// Signer resolves the account that signs every transaction
	Signer(ctx context.Context) (common.Address, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	Deploy(ctx context.Context, args ...interface{}) (Token, *types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	BlockTime(ctx context.Context, blockNumber uint64) (uint64, error)
}

// Token is the deployed TetherToken
type Token interface {
	Address() common.Address
	LatestUsdtEthPrice(ctx context.Context) (*big.Int, error)
	LatestUsdtUsdPrice(ctx context.Context) (*big.Int, error)
	Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
	BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error)
}

// Verifier publishes the contract source to a block explorer
type Verifier interface {
	Verify(ctx context.Context, address common.Address, args ...interface{}) (string, error)
}

type Params struct {
	Network        string
	Addresses      config.AddressBook
	Recipient      common.Address
	MintAmount     string
	TransferAmount string
	TokenDecimals  int32
	SkipPreflight  bool
}

// DefaultParams returns the fixed amounts and recipient for a network
func DefaultParams(network config.Network) Params {
	return Params{
		Network:        network.Name,
		Addresses:      network.Addresses,
		Recipient:      config.Recipient,
		MintAmount:     config.MintAmount,
		TransferAmount: config.TransferAmount,
		TokenDecimals:  config.TokenDecimals,
	}
}

type Workflow struct {
	chain          Chain
	verifier       Verifier
	params         Params
	mintAmount     *big.Int
	transferAmount *big.Int
}

func New(chain Chain, verifier Verifier, params Params) (*Workflow, error) {
	mintAmount, err := utils.ParseUnits(params.MintAmount, params.TokenDecimals)
	if err != nil {
		return nil, errors.Wrap(err, "mint amount")
	}
	transferAmount, err := utils.ParseUnits(params.TransferAmount, params.TokenDecimals)
	if err != nil {
		return nil, errors.Wrap(err, "transfer amount")
	}
	return &Workflow{
		chain:          chain,
		verifier:       verifier,
		params:         params,
		mintAmount:     mintAmount,
		transferAmount: transferAmount,
	}, nil
}

// Run deploys, exercises and verifies the token, one awaited step after the
// other. The first error aborts the rest. The report holds whatever was
// completed before that. Running it twice deploys and mints twice.
func (w *Workflow) Run(ctx context.Context) (*model.DeploymentReport, error) {
	report := &model.DeploymentReport{
		Network:   w.params.Network,
		Recipient: w.params.Recipient.Hex(),
	}
	args := constructorArgs(w.params.Addresses)

	deployer, err := w.chain.Signer(ctx)
	if err != nil {
		return report, errors.Wrap(err, "resolve signer")
	}
	report.Deployer = deployer.Hex()
	log.Infof("Deploying contracts with the account: %s", deployer.Hex())

	if !w.params.SkipPreflight {
		if err := preflight.CheckContracts(ctx, w.chain, w.params.Addresses.Slice()...); err != nil {
			return report, errors.Wrap(err, "preflight")
		}
	}

	log.Infof("Deploying TetherToken contract...")
	tok, err := w.deploy(ctx, report, args)
	if err != nil {
		return report, err
	}

	if err := w.readPrices(ctx, report, tok); err != nil {
		return report, err
	}

	if err := w.mintAndTransfer(ctx, report, tok, deployer); err != nil {
		return report, err
	}

	if err := w.readBalances(ctx, report, tok, deployer); err != nil {
		return report, err
	}

	log.Infof("Verifying contract on Etherscan...")
	guid, err := w.verifier.Verify(ctx, tok.Address(), args...)
	report.VerificationGUID = guid
	if err != nil {
		return report, errors.Wrap(err, "verify")
	}
	log.Infof("Contract verified successfully on Etherscan.")
	return report, nil
}

func (w *Workflow) deploy(ctx context.Context, report *model.DeploymentReport, args []interface{}) (Token, error) {
	tok, tx, err := w.chain.Deploy(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(err, "deploy")
	}
	report.DeployTxHash = tx.Hash().Hex()
	receipt, err := w.chain.WaitMined(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "wait for deployment")
	}
	report.ContractAddress = tok.Address().Hex()
	if receipt.BlockNumber != nil {
		report.DeployBlock = receipt.BlockNumber.Uint64()
		if ts, err := w.chain.BlockTime(ctx, report.DeployBlock); err != nil {
			log.Warnf("Unable to read time of block %d: %v", report.DeployBlock, err)
		} else {
			report.DeployBlockTime = ts
		}
	}
	log.Infof("TetherToken deployed to: %s", tok.Address().Hex())
	return tok, nil
}

func (w *Workflow) readPrices(ctx context.Context, report *model.DeploymentReport, tok Token) error {
	ethPrice, err := tok.LatestUsdtEthPrice(ctx)
	if err != nil {
		return errors.Wrap(err, "read USDT/ETH price")
	}
	report.UsdtEthPrice = ethPrice
	log.Infof("Latest USDT/ETH price (%d decimals): %s", config.UsdtEthPriceDecimals, utils.FormatUnits(ethPrice, config.UsdtEthPriceDecimals))

	usdPrice, err := tok.LatestUsdtUsdPrice(ctx)
	if err != nil {
		return errors.Wrap(err, "read USDT/USD price")
	}
	report.UsdtUsdPrice = usdPrice
	log.Infof("Latest USDT/USD price (%d decimals): %s", config.UsdtUsdPriceDecimals, utils.FormatUnits(usdPrice, config.UsdtUsdPriceDecimals))

	report.UsdtInEth = Ratio(ethPrice, usdPrice)
	log.Infof("1 USDT in ETH: %.10f", report.UsdtInEth)
	return nil
}

func (w *Workflow) mintAndTransfer(ctx context.Context, report *model.DeploymentReport, tok Token, deployer common.Address) error {
	decimals := w.params.TokenDecimals

	tx, err := tok.Mint(ctx, deployer, w.mintAmount)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	report.MintTxHash = tx.Hash().Hex()
	if _, err := w.chain.WaitMined(ctx, tx); err != nil {
		return errors.Wrap(err, "wait for mint")
	}
	log.Infof("Minted %s tetherToken tokens to the deployer's address.", utils.FormatUnits(w.mintAmount, decimals))

	tx, err = tok.Transfer(ctx, w.params.Recipient, w.transferAmount)
	if err != nil {
		return errors.Wrap(err, "transfer")
	}
	report.TransferTxHash = tx.Hash().Hex()
	if _, err := w.chain.WaitMined(ctx, tx); err != nil {
		return errors.Wrap(err, "wait for transfer")
	}
	log.Infof("Transferred %s tetherToken tokens to %s.", utils.FormatUnits(w.transferAmount, decimals), w.params.Recipient.Hex())
	return nil
}

func (w *Workflow) readBalances(ctx context.Context, report *model.DeploymentReport, tok Token, deployer common.Address) error {
	decimals := w.params.TokenDecimals

	deployerBalance, err := tok.BalanceOf(ctx, deployer)
	if err != nil {
		return errors.Wrap(err, "read deployer balance")
	}
	report.DeployerBalance = deployerBalance

	recipientBalance, err := tok.BalanceOf(ctx, w.params.Recipient)
	if err != nil {
		return errors.Wrap(err, "read recipient balance")
	}
	report.RecipientBalance = recipientBalance

	log.Infof("Deployer balance after mint and transfer: %s", utils.FormatUnits(deployerBalance, decimals))
	log.Infof("Recipient balance after transfer: %s", utils.FormatUnits(recipientBalance, decimals))
	return nil
}

// Ratio divides the raw on-chain values as float64, no scaling and no guard:
// a zero denominator gives Inf
func Ratio(numerator, denominator *big.Int) float64 {
	n, _ := new(big.Float).SetInt(numerator).Float64()
	d, _ := new(big.Float).SetInt(denominator).Float64()
	return n / d
}

func constructorArgs(book config.AddressBook) []interface{} {
	addrs := book.Slice()
	args := make([]interface{}, len(addrs))
	for i, addr := range addrs {
		args[i] = addr
	}
	return args
}
