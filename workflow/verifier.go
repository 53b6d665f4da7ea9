package workflow

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/duongtuttbn/tokenkit/etherscan"
	"github.com/duongtuttbn/tokenkit/token"
)

// EtherscanVerifier submits the Hardhat build-info input of the artifact
type EtherscanVerifier struct {
	client       *etherscan.Client
	artifact     *token.Artifact
	buildInfoDir string
	chainID      int64
}

func NewEtherscanVerifier(client *etherscan.Client, artifact *token.Artifact, buildInfoDir string, chainID int64) *EtherscanVerifier {
	return &EtherscanVerifier{
		client:       client,
		artifact:     artifact,
		buildInfoDir: buildInfoDir,
		chainID:      chainID,
	}
}

func (v *EtherscanVerifier) Verify(ctx context.Context, address common.Address, args ...interface{}) (string, error) {
	buildInfo, err := token.LoadBuildInfo(v.buildInfoDir, v.artifact)
	if err != nil {
		return "", err
	}
	encodedArgs, err := v.artifact.EncodeConstructorArgs(args...)
	if err != nil {
		return "", err
	}
	return v.client.Verify(ctx, etherscan.VerifyRequest{
		ChainID:              v.chainID,
		ContractAddress:      address.Hex(),
		ContractName:         v.artifact.FullyQualifiedName(),
		CompilerVersion:      buildInfo.CompilerVersion,
		SourceCode:           buildInfo.Input,
		ConstructorArguments: encodedArgs,
	})
}
