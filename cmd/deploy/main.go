package main

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/duongtuttbn/tokenkit/client_pool"
	"github.com/duongtuttbn/tokenkit/config"
	"github.com/duongtuttbn/tokenkit/etherscan"
	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
	"github.com/duongtuttbn/tokenkit/model"
	"github.com/duongtuttbn/tokenkit/token"
	"github.com/duongtuttbn/tokenkit/utils"
	"github.com/duongtuttbn/tokenkit/workflow"
)

var (
	networkFlag = &cli.StringFlag{
		Name:    "network",
		Usage:   "mainnet or sepolia",
		EnvVars: []string{"NETWORK"},
	}
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "deployed TetherToken address",
		Required: true,
	}
	skipPreflightFlag = &cli.BoolFlag{
		Name:  "skip-preflight",
		Usage: "do not check that the constructor addresses hold contract code",
	}
)

func main() {
	app := &cli.App{
		Name:   "deploy",
		Usage:  "deploy, mint, transfer and verify the TetherToken contract",
		Flags:  []cli.Flag{networkFlag, skipPreflightFlag},
		Before: setup,
		Action: deploy,
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print token metadata and the deployer balance of a deployed token",
				Flags:  []cli.Flag{addressFlag},
				Action: info,
			},
			{
				Name:   "verify",
				Usage:  "submit source verification for a deployed token",
				Flags:  []cli.Flag{addressFlag},
				Action: verify,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("Script failed with error: %v", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	config.LoadEnv()
	log.Init(os.Getenv("LOG_LEVEL"))
	return nil
}

type deps struct {
	cfg      *config.Config
	pool     *client_pool.ClientPool
	artifact *token.Artifact
}

func newDeps(ctx context.Context, c *cli.Context) (*deps, error) {
	cfg, err := config.Load(c.String(networkFlag.Name))
	if err != nil {
		return nil, err
	}
	rpcUrls, err := cfg.RPCEndpoints()
	if err != nil {
		return nil, err
	}
	pool, err := client_pool.NewBasicClientPool(ctx, client_pool.Config{
		RpcUrls:         rpcUrls,
		ProxyURL:        cfg.RPCProxyURL,
		ManualBlockTime: cfg.ManualBlockTime,
	})
	if err != nil {
		return nil, err
	}
	artifact, err := token.LoadArtifact(cfg.ArtifactPath)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &deps{cfg: cfg, pool: pool, artifact: artifact}, nil
}

func (d *deps) verifier() (*workflow.EtherscanVerifier, error) {
	client, err := etherscan.NewClient(etherscan.Config{
		APIURL: d.cfg.EtherscanAPIURL,
		APIKey: d.cfg.EtherscanAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return workflow.NewEtherscanVerifier(client, d.artifact, d.cfg.BuildInfoDir, d.cfg.Network.ChainID), nil
}

func deploy(c *cli.Context) error {
	ctx := c.Context
	d, err := newDeps(ctx, c)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	chain, err := workflow.NewEVMChain(d.pool, d.artifact, d.cfg.PrivateKey, d.cfg.Network.ChainID)
	if err != nil {
		return err
	}
	verifier, err := d.verifier()
	if err != nil {
		return err
	}
	params := workflow.DefaultParams(d.cfg.Network)
	params.SkipPreflight = c.Bool(skipPreflightFlag.Name)
	w, err := workflow.New(chain, verifier, params)
	if err != nil {
		return err
	}

	log.Warnf("Every run deploys a new contract and mints again on %s", d.cfg.Network.Name)
	report, err := w.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "Error interacting with TetherToken contract")
	}
	log.WithField("contract", report.ContractAddress).
		WithField("deploy_tx", report.DeployTxHash).
		WithField("block", report.DeployBlock).
		Info("Deployment finished")
	return nil
}

type tokenReader interface {
	GetLatestBlock(ctx context.Context) (uint64, error)
	GetTokenInfo(ctx context.Context, tokenAddress string) (*model.TokenInfo, error)
	GetTokenBalance(ctx context.Context, tokenAddress, holder string, decimals int64) (*model.TokenBalance, error)
}

func info(c *cli.Context) error {
	ctx := c.Context
	d, err := newDeps(ctx, c)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	address, err := parseAddress(c.String(addressFlag.Name))
	if err != nil {
		return err
	}
	chain, err := workflow.NewEVMChain(d.pool, d.artifact, d.cfg.PrivateKey, d.cfg.Network.ChainID)
	if err != nil {
		return err
	}
	var holder *common.Address
	if deployer, err := chain.Signer(ctx); err != nil {
		log.Warnf("No signer configured, skipping deployer balance: %v", err)
	} else {
		holder = &deployer
	}
	if _, _, err := printTokenInfo(ctx, d.pool, address, holder); err != nil {
		return err
	}

	tok, err := chain.Attach(ctx, address)
	if err != nil {
		return err
	}
	price, err := tok.LatestUsdtUsdPrice(ctx)
	if err != nil {
		return err
	}
	log.Infof("Latest USDT/USD price (%d decimals): %s", config.UsdtUsdPriceDecimals, utils.FormatUnits(price, config.UsdtUsdPriceDecimals))
	return nil
}

// printTokenInfo logs the chain head, the token metadata and, when holder is
// set, its balance
func printTokenInfo(ctx context.Context, reader tokenReader, address common.Address, holder *common.Address) (*model.TokenInfo, *model.TokenBalance, error) {
	block, err := reader.GetLatestBlock(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Latest block: %d", block)

	tokenInfo, err := reader.GetTokenInfo(ctx, address.Hex())
	if err != nil {
		return nil, nil, err
	}
	log.Infof("%s (%s) at %s, %d decimals, total supply %v",
		tokenInfo.TokenName, tokenInfo.TokenSymbol, tokenInfo.TokenAddress, tokenInfo.ContractDecimals, tokenInfo.TotalSupply)
	if holder == nil {
		return tokenInfo, nil, nil
	}

	balance, err := reader.GetTokenBalance(ctx, address.Hex(), holder.Hex(), tokenInfo.ContractDecimals)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Deployer %s balance: %v", balance.Holder, balance.Balance)
	return tokenInfo, balance, nil
}

func verify(c *cli.Context) error {
	ctx := c.Context
	d, err := newDeps(ctx, c)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	address, err := parseAddress(c.String(addressFlag.Name))
	if err != nil {
		return err
	}
	verifier, err := d.verifier()
	if err != nil {
		return err
	}
	return verifyDeployed(ctx, verifier, d.cfg.Network.Addresses, address)
}

// verifyDeployed re-submits verification with the constructor arguments the
// deployment used
func verifyDeployed(ctx context.Context, verifier workflow.Verifier, book config.AddressBook, address common.Address) error {
	log.Infof("Verifying contract on Etherscan...")
	if _, err := verifier.Verify(ctx, address, book.UsdtEthPriceFeed, book.UsdtUsdPriceFeed, book.UsdtContract, book.UniswapRouter); err != nil {
		return err
	}
	log.Infof("Contract verified successfully on Etherscan.")
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, lerror.MissingConfig.ToError("invalid address " + s)
	}
	return common.HexToAddress(s), nil
}
