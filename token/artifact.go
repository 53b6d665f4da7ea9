package token

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/duongtuttbn/tokenkit/lerror"
)

// Artifact is a compiled contract as written by Hardhat under artifacts/
type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	Bytecode     []byte
}

type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// BuildInfo is the solc input that produced an artifact, needed for verification
type BuildInfo struct {
	CompilerVersion string
	Input           json.RawMessage
}

type hardhatBuildInfo struct {
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
	Output          struct {
		Contracts map[string]map[string]json.RawMessage `json:"contracts"`
	} `json:"output"`
}

func LoadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read artifact %s", path)
	}
	var hh hardhatArtifact
	if err := json.Unmarshal(raw, &hh); err != nil {
		return nil, errors.Wrapf(err, "unable to decode artifact %s", path)
	}
	parsed, err := abi.JSON(bytes.NewReader(hh.ABI))
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse contract abi")
	}
	code, err := hexutil.Decode(hh.Bytecode)
	if err != nil || len(code) == 0 {
		return nil, lerror.InvalidResponse.ToError("artifact " + path + " has no deployable bytecode")
	}
	return &Artifact{
		ContractName: hh.ContractName,
		SourceName:   hh.SourceName,
		ABI:          parsed,
		Bytecode:     code,
	}, nil
}

// FullyQualifiedName is "sourceName:contractName", the form explorers expect
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// EncodeConstructorArgs ABI-encodes args the way they are appended to the
// creation bytecode, hex without 0x
func (a *Artifact) EncodeConstructorArgs(args ...interface{}) (string, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return "", errors.Wrap(err, "unable to pack constructor arguments")
	}
	return common.Bytes2Hex(packed), nil
}

// LoadBuildInfo finds the build-info file in dir that compiled the artifact
func LoadBuildInfo(dir string, artifact *Artifact) (*BuildInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "unable to list build info")
	}
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read build info %s", file)
		}
		var info hardhatBuildInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, errors.Wrapf(err, "unable to decode build info %s", file)
		}
		if _, ok := info.Output.Contracts[artifact.SourceName][artifact.ContractName]; !ok {
			continue
		}
		return &BuildInfo{
			CompilerVersion: "v" + info.SolcLongVersion,
			Input:           info.Input,
		}, nil
	}
	return nil, lerror.MissingConfig.ToError("no build info for " + artifact.FullyQualifiedName() + " in " + dir)
}
