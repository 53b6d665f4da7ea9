package config

import (
	"fmt"
	"strings"

	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/ethereum/go-ethereum/common"
)

const (
	NetworkMainnet = "mainnet"
	NetworkSepolia = "sepolia"
)

// AddressBook holds the TetherToken constructor arguments for a network.
// Order matters: it is the constructor parameter order.
type AddressBook struct {
	UsdtEthPriceFeed common.Address
	UsdtUsdPriceFeed common.Address
	UsdtContract     common.Address
	UniswapRouter    common.Address
}

type Network struct {
	Name        string
	ChainID     int64
	alchemyHost string
	Addresses   AddressBook
}

var networks = map[string]Network{
	NetworkMainnet: {
		Name:        NetworkMainnet,
		ChainID:     1,
		alchemyHost: "eth-mainnet.g.alchemy.com",
		Addresses: AddressBook{
			UsdtEthPriceFeed: common.HexToAddress("0xEe9F2375b4bdF6387aa8265dD4FB8F16512A1d46"),
			UsdtUsdPriceFeed: common.HexToAddress("0x3E7d1eAB13ad0104d2750B8863b489D65364e32D"),
			UsdtContract:     common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
			UniswapRouter:    common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		},
	},
	NetworkSepolia: {
		Name:        NetworkSepolia,
		ChainID:     11155111,
		alchemyHost: "eth-sepolia.g.alchemy.com",
		Addresses: AddressBook{
			UsdtEthPriceFeed: common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306"),
			UsdtUsdPriceFeed: common.HexToAddress("0xA2F78ab2355fe2f984D808B5CeE7FD0A93D5270E"),
			UsdtContract:     common.HexToAddress("0xdE184350eb0108E166525F912740D4E47c34c074"),
			UniswapRouter:    common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		},
	},
}

// GetNetwork looks up a network by name, case-insensitive
func GetNetwork(name string) (Network, error) {
	n, ok := networks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, lerror.MissingConfig.ToError(fmt.Sprintf("unknown network %q", name))
	}
	return n, nil
}

// AlchemyURL builds the RPC endpoint for the given API key
func (n Network) AlchemyURL(apiKey string) string {
	return fmt.Sprintf("https://%s/v2/%s", n.alchemyHost, apiKey)
}

// Slice returns the addresses in constructor order
func (a AddressBook) Slice() []common.Address {
	return []common.Address{a.UsdtEthPriceFeed, a.UsdtUsdPriceFeed, a.UsdtContract, a.UniswapRouter}
}
