package config

import (
	"os"
	"strings"

	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

const (
	DefaultCoinGeckoURL  = "https://api.coingecko.com/api/v3"
	DefaultEtherscanURL  = "https://api.etherscan.io/v2/api"
	DefaultArtifactPath  = "artifacts/contracts/TetherToken.sol/TetherToken.json"
	DefaultBuildInfoDir  = "artifacts/build-info"
	DefaultContractName  = "TetherToken"
	TokenDecimals        = 6
	UsdtEthPriceDecimals = 18
	UsdtUsdPriceDecimals = 8
	MintAmount           = "100000"
	TransferAmount       = "50000"
)

var Recipient = common.HexToAddress("0x16C4891146BaCf9017D1F115F3a986D29Cb13d32")

type Config struct {
	Network         Network
	AlchemyAPIKey   string
	RpcUrls         string
	RPCProxyURL     string
	ManualBlockTime bool
	PrivateKey      string
	EtherscanAPIKey string
	EtherscanAPIURL string
	ArtifactPath    string
	BuildInfoDir    string
	LogLevel        string
}

// LoadEnv reads .env into the process environment if it exists
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debugf(".env file not found, relying on OS environment variables")
	}
}

// Load reads the configuration from the environment. networkOverride wins over
// NETWORK when set. Secrets are not required here, the step that needs one
// reports it missing.
func Load(networkOverride string) (*Config, error) {
	networkName := networkOverride
	if networkName == "" {
		networkName = getEnv("NETWORK", NetworkMainnet)
	}
	network, err := GetNetwork(networkName)
	if err != nil {
		return nil, err
	}

	return &Config{
		Network:         network,
		AlchemyAPIKey:   os.Getenv("ALCHEMY_API_URL"),
		RpcUrls:         os.Getenv("RPC_URLS"),
		RPCProxyURL:     os.Getenv("RPC_PROXY_URL"),
		ManualBlockTime: strings.EqualFold(os.Getenv("MANUAL_BLOCK_TIME"), "true"),
		PrivateKey:      os.Getenv("PRIVATE_KEY"),
		EtherscanAPIKey: os.Getenv("ETHERSCAN_API_KEY"),
		EtherscanAPIURL: getEnv("ETHERSCAN_API_URL", DefaultEtherscanURL),
		ArtifactPath:    getEnv("ARTIFACT_PATH", DefaultArtifactPath),
		BuildInfoDir:    getEnv("BUILD_INFO_DIR", DefaultBuildInfoDir),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

// PriceFeedConfig is everything the price fetcher reads. It shares nothing
// with the deployment settings.
type PriceFeedConfig struct {
	APIURL   string
	APIKey   string
	LogLevel string
}

func LoadPriceFeed() *PriceFeedConfig {
	return &PriceFeedConfig{
		APIURL:   getEnv("COINGECKO_API_URL", DefaultCoinGeckoURL),
		APIKey:   os.Getenv("COINGECKO_API_KEY"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// RPCEndpoints returns RPC_URLS when set, otherwise the Alchemy endpoint
func (c *Config) RPCEndpoints() (string, error) {
	if strings.TrimSpace(c.RpcUrls) != "" {
		return c.RpcUrls, nil
	}
	if c.AlchemyAPIKey == "" {
		return "", lerror.MissingConfig.ToError("ALCHEMY_API_URL or RPC_URLS must be set")
	}
	return c.Network.AlchemyURL(c.AlchemyAPIKey), nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
