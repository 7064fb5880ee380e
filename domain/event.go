package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type EventKind uint8

const (
	EventAccountsChanged EventKind = iota + 1
	EventChainChanged
)

func (k EventKind) String() string {
	switch k {
	case EventAccountsChanged:
		return "accountsChanged"
	case EventChainChanged:
		return "chainChanged"
	}
	return "unknown"
}

// ProviderEvent is a notification pushed by the wallet provider.
type ProviderEvent struct {
	Kind     EventKind
	Accounts []common.Address
	ChainID  *big.Int
}
