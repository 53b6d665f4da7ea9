package client_pool

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/chenzhijie/go-web3"
	"github.com/chenzhijie/go-web3/eth"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
	"github.com/duongtuttbn/tokenkit/log"
	"github.com/duongtuttbn/tokenkit/model"
	"github.com/duongtuttbn/tokenkit/utils"
)

type (
	ClientPool struct {
		clients []*Client
		counter int
		mu      sync.Mutex
		config  Config
	}

	GetBlockTimeResponse struct {
		Result *struct {
			Timestamp string `json:"timestamp"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

const (
	tokenInfoABI = "[{\"inputs\":[],\"name\":\"symbol\",\"outputs\":[{\"internalType\":\"string\",\"name\":\"\",\"type\":\"string\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"name\",\"outputs\":[{\"internalType\":\"string\",\"name\":\"\",\"type\":\"string\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[{\"internalType\":\"address\",\"name\":\"account\",\"type\":\"address\"}],\"name\":\"balanceOf\",\"outputs\":[{\"internalType\":\"uint256\",\"name\":\"\",\"type\":\"uint256\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"decimals\",\"outputs\":[{\"internalType\":\"uint8\",\"name\":\"\",\"type\":\"uint8\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"totalSupply\",\"outputs\":[{\"internalType\":\"uint256\",\"name\":\"\",\"type\":\"uint256\"}],\"stateMutability\":\"view\",\"type\":\"function\"}]"
)

func NewBasicClientPool(ctx context.Context, cfg Config) (*ClientPool, error) {
	rpcUrls := strings.Split(cfg.RpcUrls, ",")
	clients := make([]*Client, 0, len(rpcUrls))
	for _, rpcUrl := range rpcUrls {
		rpcUrl = strings.TrimSpace(rpcUrl)
		if rpcUrl == "" {
			continue
		}
		client, err := NewClient(ctx, rpcUrl, cfg.ProxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "unable to init new client")
		}
		clients = append(clients, client)
	}
	if len(clients) == 0 {
		return nil, lerror.MissingConfig.ToError("no rpc url configured")
	}
	return &ClientPool{
		clients: clients,
		config:  cfg,
	}, nil
}

// GetClient returns the next available client in round robin order,
// ErrNoClientAvailable when every client is marked down
func (pool *ClientPool) GetClient() (*Client, error) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for i := 0; i < len(pool.clients); i++ {
		client := pool.clients[pool.counter]
		pool.counter = (pool.counter + 1) % len(pool.clients)
		if client.IsAvailable() {
			log.Debugf("Use client: %s", client.endpoint)
			return client, nil
		}
	}
	return nil, ErrNoClientAvailable
}

// AvailableClients counts clients not currently marked down
func (pool *ClientPool) AvailableClients() int {
	counter := 0
	for _, client := range pool.clients {
		if client.IsAvailable() {
			counter++
		}
	}
	return counter
}

func (pool *ClientPool) Close() {
	for _, client := range pool.clients {
		client.Close()
	}
}

// GetLatestBlock return latest block number
func (pool *ClientPool) GetLatestBlock(ctx context.Context) (uint64, error) {
	client, err := pool.GetClient()
	if err != nil {
		return 0, err
	}
	maxBlock, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, networkError(client, err, "get max block error")
	}
	return maxBlock, nil
}

func (pool *ClientPool) BlockTime(ctx context.Context, blockNumber uint64) (uint64, error) {
	if pool.config.ManualBlockTime {
		return pool.manualBlockTime(ctx, blockNumber)
	}
	return pool.rpcBlockTime(ctx, blockNumber)
}

func (pool *ClientPool) rpcBlockTime(ctx context.Context, blockNumber uint64) (uint64, error) {
	client, err := pool.GetClient()
	if err != nil {
		return 0, err
	}
	header, err := client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return 0, networkError(client, err, "get block header error")
	}
	return header.Time, nil
}

// manualBlockTime asks the node directly, for providers whose block encoding
// ethclient cannot decode
func (pool *ClientPool) manualBlockTime(ctx context.Context, blockNumber uint64) (uint64, error) {
	client, err := pool.GetClient()
	if err != nil {
		return 0, err
	}
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "eth_getBlockByNumber",
		"params": []interface{}{
			DecimalToHex(int64(blockNumber)),
			false,
		},
		"id": 0,
	}
	res, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&GetBlockTimeResponse{}).
		Post(client.endpoint)
	if err != nil {
		return 0, networkError(client, err, "manual block time request error")
	}
	if res.IsError() {
		return 0, networkError(client, errors.Errorf("status %d: %s", res.StatusCode(), string(res.Body())), "manual block time status error")
	}
	data := res.Result().(*GetBlockTimeResponse)
	if data.Error != nil {
		return 0, networkError(client, errors.New(data.Error.Message), "manual block time rpc error")
	}
	if data.Result == nil {
		return 0, lerror.InvalidResponse.ToError("block " + DecimalToHex(int64(blockNumber)) + " not found")
	}
	result, err := HexToInt(data.Result.Timestamp)
	if err != nil {
		return 0, errors.Wrap(lerror.InvalidResponse.ToError(err.Error()), "manual block time hex to int")
	}
	return uint64(result), nil
}

// tokenContract binds the ERC-20 read ABI at tokenAddress after making sure
// the address holds code, so an empty account is not mistaken for a token
func (pool *ClientPool) tokenContract(ctx context.Context, tokenAddress string) (*eth.Contract, error) {
	client, err := pool.GetClient()
	if err != nil {
		return nil, err
	}
	code, err := client.CodeAt(ctx, common.HexToAddress(tokenAddress), nil)
	if err != nil {
		return nil, networkError(client, err, "get token code error")
	}
	if len(code) == 0 {
		return nil, lerror.InvalidResponse.ToError("no contract code at " + tokenAddress)
	}
	clientWeb3, err := web3.NewWeb3(client.endpoint)
	if err != nil {
		return nil, networkError(client, err, "init web3 client error")
	}
	contract, err := clientWeb3.Eth.NewContract(tokenInfoABI, tokenAddress)
	if err != nil {
		return nil, errors.Wrap(err, "init contract error")
	}
	return contract, nil
}

// callToken runs a read-only call. The node already answered the code lookup,
// so a failure here is an answer the ABI cannot decode.
func callToken(contract *eth.Contract, method string, args ...interface{}) (interface{}, error) {
	out, err := contract.Call(method, args...)
	if err != nil {
		return nil, errors.Wrapf(lerror.InvalidResponse.ToError(err.Error()), "call %s error", method)
	}
	if values, ok := out.([]interface{}); ok {
		if len(values) != 1 {
			return nil, lerror.InvalidResponse.ToError(method + " returned no single value")
		}
		return values[0], nil
	}
	return out, nil
}

// GetTokenInfo reads ERC-20 metadata of the token
func (pool *ClientPool) GetTokenInfo(ctx context.Context, tokenAddress string) (*model.TokenInfo, error) {
	contract, err := pool.tokenContract(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}
	name, err := callToken(contract, "name")
	if err != nil {
		return nil, err
	}
	symbol, err := callToken(contract, "symbol")
	if err != nil {
		return nil, err
	}
	decimals, err := callToken(contract, "decimals")
	if err != nil {
		return nil, err
	}
	totalSupply, err := callToken(contract, "totalSupply")
	if err != nil {
		return nil, err
	}

	item := &model.TokenInfo{TokenAddress: tokenAddress}
	var ok bool
	if item.TokenName, ok = name.(string); !ok {
		return nil, lerror.InvalidResponse.ToError("name is not a string")
	}
	if item.TokenSymbol, ok = symbol.(string); !ok {
		return nil, lerror.InvalidResponse.ToError("symbol is not a string")
	}
	dec, ok := decimals.(uint8)
	if !ok {
		return nil, lerror.InvalidResponse.ToError("decimals is not uint8")
	}
	item.ContractDecimals = int64(dec)
	supply, ok := totalSupply.(*big.Int)
	if !ok {
		return nil, lerror.InvalidResponse.ToError("totalSupply is not uint256")
	}
	item.TotalSupply = utils.BigIntToFloat(supply, item.ContractDecimals)
	return item, nil
}

// GetTokenBalance reads balanceOf(holder) scaled by decimals
func (pool *ClientPool) GetTokenBalance(ctx context.Context, tokenAddress, holder string, decimals int64) (*model.TokenBalance, error) {
	contract, err := pool.tokenContract(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}
	balance, err := callToken(contract, "balanceOf", common.HexToAddress(holder))
	if err != nil {
		return nil, err
	}
	raw, ok := balance.(*big.Int)
	if !ok {
		return nil, lerror.InvalidResponse.ToError("balanceOf is not uint256")
	}
	return &model.TokenBalance{
		TokenAddress: tokenAddress,
		Holder:       holder,
		Balance:      utils.BigIntToFloat(raw, decimals),
	}, nil
}
