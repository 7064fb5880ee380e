package mocks

import (
	"context"
	"crowdfund/domain"
	"crowdfund/domain/model"
	"crowdfund/usecase"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock for usecase.Provider. Subscribe keeps the listeners so
// tests can emit events.
type Provider struct {
	mock.Mock

	Listeners []func(domain.ProviderEvent)
}

func (m *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if accounts, ok := args.Get(0).([]common.Address); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if accounts, ok := args.Get(0).([]common.Address); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if id, ok := args.Get(0).(*big.Int); ok {
		return id, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	args := m.Called(ctx, chainID)
	return args.Error(0)
}

func (m *Provider) Subscribe(listener func(domain.ProviderEvent)) func() {
	m.Called()
	m.Listeners = append(m.Listeners, listener)
	return func() {}
}

// Emit delivers event to every subscribed listener.
func (m *Provider) Emit(event domain.ProviderEvent) {
	for _, listener := range m.Listeners {
		listener(event)
	}
}

func (m *Provider) Backend() (usecase.Backend, error) {
	args := m.Called()
	if backend, ok := args.Get(0).(usecase.Backend); ok {
		return backend, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) Signer(account common.Address) (bind.SignerFn, error) {
	args := m.Called(account)
	if signer, ok := args.Get(0).(bind.SignerFn); ok {
		return signer, args.Error(1)
	}
	return nil, args.Error(1)
}

// Contract is a mock for usecase.Contract.
type Contract struct {
	mock.Mock
}

func (m *Contract) transaction(args mock.Arguments) (*types.Transaction, error) {
	if tx, ok := args.Get(0).(*types.Transaction); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Contract) CreateProject(ctx context.Context, title, description, imageURL string, cost *big.Int, expiresAt int64) (*types.Transaction, error) {
	return m.transaction(m.Called(ctx, title, description, imageURL, cost, expiresAt))
}

func (m *Contract) UpdateProject(ctx context.Context, id int64, title, description, imageURL string, expiresAt int64) (*types.Transaction, error) {
	return m.transaction(m.Called(ctx, id, title, description, imageURL, expiresAt))
}

func (m *Contract) DeleteProject(ctx context.Context, id int64) (*types.Transaction, error) {
	return m.transaction(m.Called(ctx, id))
}

func (m *Contract) BackProject(ctx context.Context, id int64, value *big.Int) (*types.Transaction, error) {
	return m.transaction(m.Called(ctx, id, value))
}

func (m *Contract) PayoutProject(ctx context.Context, id int64) (*types.Transaction, error) {
	return m.transaction(m.Called(ctx, id))
}

func (m *Contract) GetProjects(ctx context.Context) ([]model.RawProject, error) {
	args := m.Called(ctx)
	if projects, ok := args.Get(0).([]model.RawProject); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Contract) GetProject(ctx context.Context, id int64) (*model.RawProject, error) {
	args := m.Called(ctx, id)
	if project, ok := args.Get(0).(*model.RawProject); ok {
		return project, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Contract) GetBackers(ctx context.Context, id int64) ([]model.RawBacker, error) {
	args := m.Called(ctx, id)
	if backers, ok := args.Get(0).([]model.RawBacker); ok {
		return backers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Contract) Stats(ctx context.Context) (*model.RawStats, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*model.RawStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Contract) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	if receipt, ok := args.Get(0).(*types.Receipt); ok {
		return receipt, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContractSource is a mock for usecase.ContractSource.
type ContractSource struct {
	mock.Mock
}

func (m *ContractSource) GetContractHandle(ctx context.Context) (usecase.Contract, error) {
	args := m.Called(ctx)
	if contract, ok := args.Get(0).(usecase.Contract); ok {
		return contract, args.Error(1)
	}
	return nil, args.Error(1)
}

// Session is a mock for usecase.Session.
type Session struct {
	mock.Mock
}

func (m *Session) HasProvider() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Session) EnsureNetwork(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Syncer is a mock for usecase.Syncer.
type Syncer struct {
	mock.Mock
}

func (m *Syncer) LoadProjects(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Syncer) LoadProject(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Syncer) LoadBackers(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SnapshotRepository is a mock for usecase.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error) {
	args := m.Called(ctx, snapshot)
	if stored, ok := args.Get(0).(*domain.Snapshot); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SnapshotRepository) FindAll(ctx context.Context) ([]domain.Snapshot, error) {
	args := m.Called(ctx)
	if snapshots, ok := args.Get(0).([]domain.Snapshot); ok {
		return snapshots, args.Error(1)
	}
	return nil, args.Error(1)
}

// Receipts is a usecase.Backend whose TransactionReceipt answers from a queue
// of results. Any other backend method panics.
type Receipts struct {
	usecase.Backend

	Results []ReceiptResult
	Calls   int
}

type ReceiptResult struct {
	Receipt *types.Receipt
	Err     error
}

func (b *Receipts) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	i := b.Calls
	b.Calls++
	if i >= len(b.Results) {
		i = len(b.Results) - 1
	}
	return b.Results[i].Receipt, b.Results[i].Err
}
