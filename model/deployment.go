package model

import "math/big"

// DeploymentReport collects what a deployment run observed. Fields are filled
// in workflow order, so on failure only the completed steps are populated.
type DeploymentReport struct {
	Network          string   `json:"network"`
	Deployer         string   `json:"deployer"`
	ContractAddress  string   `json:"contract_address"`
	DeployTxHash     string   `json:"deploy_tx_hash"`
	DeployBlock      uint64   `json:"deploy_block"`
	DeployBlockTime  uint64   `json:"deploy_block_time,omitempty"`
	UsdtEthPrice     *big.Int `json:"usdt_eth_price"`
	UsdtUsdPrice     *big.Int `json:"usdt_usd_price"`
	UsdtInEth        float64  `json:"usdt_in_eth"`
	MintTxHash       string   `json:"mint_tx_hash"`
	TransferTxHash   string   `json:"transfer_tx_hash"`
	Recipient        string   `json:"recipient"`
	DeployerBalance  *big.Int `json:"deployer_balance"`
	RecipientBalance *big.Int `json:"recipient_balance"`
	VerificationGUID string   `json:"verification_guid,omitempty"`
}
