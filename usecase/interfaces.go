package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/domain/model"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Provider is the wallet provider the session talks to: account access, the
// attached network and the signing backend.
type Provider interface {
	// Accounts returns the already authorized accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the wallet holder for account access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	// Subscribe registers a listener for account and network changes.
	Subscribe(listener func(domain.ProviderEvent)) (unsubscribe func())
	Backend() (Backend, error)
	Signer(account common.Address) (bind.SignerFn, error)
}

// Backend is the RPC surface a contract binding and the confirmer need.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Contract is the crowdfunding contract call surface bound to one account.
type Contract interface {
	CreateProject(ctx context.Context, title, description, imageURL string, cost *big.Int, expiresAt int64) (*types.Transaction, error)
	UpdateProject(ctx context.Context, id int64, title, description, imageURL string, expiresAt int64) (*types.Transaction, error)
	DeleteProject(ctx context.Context, id int64) (*types.Transaction, error)
	BackProject(ctx context.Context, id int64, value *big.Int) (*types.Transaction, error)
	PayoutProject(ctx context.Context, id int64) (*types.Transaction, error)

	GetProjects(ctx context.Context) ([]model.RawProject, error)
	GetProject(ctx context.Context, id int64) (*model.RawProject, error)
	GetBackers(ctx context.Context, id int64) ([]model.RawBacker, error)
	Stats(ctx context.Context) (*model.RawStats, error)

	// Confirm blocks until tx is mined and returns its receipt.
	Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type ContractSource interface {
	GetContractHandle(ctx context.Context) (Contract, error)
}

// Session is what the orchestrator needs from the wallet session.
type Session interface {
	HasProvider() bool
	EnsureNetwork(ctx context.Context) error
}

// Syncer re-reads chain state into the store.
type Syncer interface {
	LoadProjects(ctx context.Context) error
	LoadProject(ctx context.Context, id int64) error
	LoadBackers(ctx context.Context, id int64) error
}
