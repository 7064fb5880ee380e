// Package artifacts loads the contract deployment artifacts: the deployed
// address and the ABI. The ABI may be a bare JSON array or a hardhat artifact
// with an "abi" field; without a file the embedded Genesis ABI is used.
package artifacts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed genesis.abi.json
var genesisABI []byte

var (
	ErrorNoAddress      = fmt.Errorf("no contract address is defined")
	ErrorInvalidAddress = fmt.Errorf("invalid contract address")
)

type Artifacts struct {
	Address common.Address
	ABI     abi.ABI
}

type hardhatArtifact struct {
	ABI json.RawMessage `json:"abi"`
}

type addressFile struct {
	Address string `json:"address"`
}

// Load resolves the address from address or, when empty, from addressFile, and
// the ABI from abiFile or the embedded default.
func Load(address, addressFile, abiFile string) (*Artifacts, error) {
	var err error

	if address == "" && addressFile != "" {
		address, err = ReadAddressFile(addressFile)
		if err != nil {
			return nil, err
		}
	}
	if address == "" {
		return nil, ErrorNoAddress
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrorInvalidAddress, address)
	}

	parsed := DefaultABI()
	if abiFile != "" {
		raw, err := os.ReadFile(abiFile)
		if err != nil {
			return nil, fmt.Errorf("reading abi file: %w", err)
		}
		parsed, err = ParseABI(raw)
		if err != nil {
			return nil, err
		}
	}

	return &Artifacts{
		Address: common.HexToAddress(address),
		ABI:     parsed,
	}, nil
}

// ParseABI accepts a bare ABI array or a hardhat artifact.
func ParseABI(raw []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var artifact hardhatArtifact
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("parsing hardhat artifact: %w", err)
		}
		if len(artifact.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("hardhat artifact has no abi field")
		}
		trimmed = artifact.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(trimmed))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing abi: %w", err)
	}
	return parsed, nil
}

// ReadAddressFile reads a {"address": "0x..."} deployment file.
func ReadAddressFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading address file: %w", err)
	}

	var file addressFile
	if err := json.Unmarshal(content, &file); err != nil {
		return "", fmt.Errorf("parsing address file: %w", err)
	}
	return strings.TrimSpace(file.Address), nil
}

// DefaultABI returns the embedded Genesis ABI.
func DefaultABI() abi.ABI {
	parsed, err := ParseABI(genesisABI)
	if err != nil {
		panic(err)
	}
	return parsed
}
