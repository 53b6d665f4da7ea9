package etherscan

import "encoding/json"

// Response is the envelope every Etherscan endpoint answers with
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

type VerifyRequest struct {
	ChainID int64
	// ContractAddress is the deployed address, hex with 0x
	ContractAddress string
	// ContractName is the fully qualified name, e.g. contracts/TetherToken.sol:TetherToken
	ContractName    string
	CompilerVersion string
	// SourceCode is the solc standard JSON input
	SourceCode json.RawMessage
	// ConstructorArguments is ABI encoded, hex without 0x
	ConstructorArguments string
}

const (
	statusOK = "1"

	resultPending         = "Pending in queue"
	resultPass            = "Pass - Verified"
	resultAlreadyVerified = "Already Verified"
)
