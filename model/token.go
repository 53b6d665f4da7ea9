package model

type TokenInfo struct {
	TokenAddress     string  `json:"token_address"`
	TokenName        string  `json:"token_name"`
	TokenSymbol      string  `json:"token_symbol"`
	ContractDecimals int64   `json:"contract_decimals"`
	TotalSupply      float64 `json:"total_supply"`
}

type TokenBalance struct {
	TokenAddress string  `json:"token_address"`
	Holder       string  `json:"holder"`
	Balance      float64 `json:"balance"`
}
