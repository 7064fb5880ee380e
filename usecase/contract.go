package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/domain/model"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrorNoAccount = fmt.Errorf("no connected account to sign with")

type ContractInteractor struct {
	provider Provider
	address  common.Address
	abi      abi.ABI
	confirm  ConfirmOptions
}

func NewContractInteractor(provider Provider, address common.Address, contractAbi abi.ABI, confirm ConfirmOptions) *ContractInteractor {
	return &ContractInteractor{
		provider: provider,
		address:  address,
		abi:      contractAbi,
		confirm:  confirm,
	}
}

// GetContractHandle binds the contract to the provider's backend and its
// currently active account. Nothing is cached: every call builds a new handle
// so account and network changes are always picked up.
func (interactor *ContractInteractor) GetContractHandle(ctx context.Context) (Contract, error) {
	const op = "get contract handle"

	if interactor.provider == nil {
		return nil, domain.NewError(domain.KindProviderUnavailable, op, domain.ErrorWalletMissing)
	}

	backend, err := interactor.provider.Backend()
	if err != nil {
		return nil, domain.NewError(domain.KindProviderUnavailable, op, err)
	}

	accounts, err := interactor.provider.Accounts(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindProviderUnavailable, op, err)
	}

	handle := &ContractHandle{
		contract:  bind.NewBoundContract(interactor.address, interactor.abi, backend, backend, backend),
		confirmer: NewConfirmInteractor(backend, interactor.confirm),
	}

	if len(accounts) > 0 {
		handle.account = accounts[0]
		handle.signer, err = interactor.provider.Signer(accounts[0])
		if err != nil {
			return nil, domain.NewError(domain.KindProviderUnavailable, op, err)
		}
	}

	return handle, nil
}

// ContractHandle is the contract bound to an address, ABI and signing account.
type ContractHandle struct {
	account   common.Address
	signer    bind.SignerFn
	contract  *bind.BoundContract
	confirmer *ConfirmInteractor
}

func (h *ContractHandle) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: h.account}
}

func (h *ContractHandle) transact(ctx context.Context, value *big.Int, method string, params ...interface{}) (*types.Transaction, error) {
	if h.signer == nil {
		return nil, domain.NewError(domain.KindTransactionFailed, method, ErrorNoAccount)
	}

	opts := &bind.TransactOpts{
		From:    h.account,
		Signer:  h.signer,
		Context: ctx,
		Value:   value,
	}
	tx, err := h.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, domain.NewError(domain.KindTransactionFailed, method, err)
	}
	return tx, nil
}

func (h *ContractHandle) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	err := h.contract.Call(h.callOpts(ctx), &out, method, params...)
	if err != nil {
		return nil, domain.NewError(domain.KindProviderUnavailable, method, err)
	}
	return out, nil
}

func (h *ContractHandle) CreateProject(ctx context.Context, title, description, imageURL string, cost *big.Int, expiresAt int64) (*types.Transaction, error) {
	return h.transact(ctx, nil, "createProject", title, description, imageURL, cost, big.NewInt(expiresAt))
}

func (h *ContractHandle) UpdateProject(ctx context.Context, id int64, title, description, imageURL string, expiresAt int64) (*types.Transaction, error) {
	return h.transact(ctx, nil, "updateProject", big.NewInt(id), title, description, imageURL, big.NewInt(expiresAt))
}

func (h *ContractHandle) DeleteProject(ctx context.Context, id int64) (*types.Transaction, error) {
	return h.transact(ctx, nil, "deleteProject", big.NewInt(id))
}

func (h *ContractHandle) BackProject(ctx context.Context, id int64, value *big.Int) (*types.Transaction, error) {
	return h.transact(ctx, value, "backProject", big.NewInt(id))
}

func (h *ContractHandle) PayoutProject(ctx context.Context, id int64) (*types.Transaction, error) {
	return h.transact(ctx, nil, "payoutProject", big.NewInt(id))
}

func (h *ContractHandle) GetProjects(ctx context.Context) ([]model.RawProject, error) {
	out, err := h.call(ctx, "getProjects")
	if err != nil {
		return nil, err
	}
	projects := *abi.ConvertType(out[0], new([]model.RawProject)).(*[]model.RawProject)
	return projects, nil
}

func (h *ContractHandle) GetProject(ctx context.Context, id int64) (*model.RawProject, error) {
	out, err := h.call(ctx, "getProject", big.NewInt(id))
	if err != nil {
		return nil, err
	}
	project := *abi.ConvertType(out[0], new(model.RawProject)).(*model.RawProject)
	return &project, nil
}

func (h *ContractHandle) GetBackers(ctx context.Context, id int64) ([]model.RawBacker, error) {
	out, err := h.call(ctx, "getBackers", big.NewInt(id))
	if err != nil {
		return nil, err
	}
	backers := *abi.ConvertType(out[0], new([]model.RawBacker)).(*[]model.RawBacker)
	return backers, nil
}

func (h *ContractHandle) Stats(ctx context.Context) (*model.RawStats, error) {
	out, err := h.call(ctx, "stats")
	if err != nil {
		return nil, err
	}
	if len(out) != 3 {
		return nil, domain.NewError(domain.KindProviderUnavailable, "stats",
			fmt.Errorf("unexpected stats outputs: %d", len(out)))
	}

	return &model.RawStats{
		TotalProjects:  *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		TotalBacking:   *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		TotalDonations: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
	}, nil
}

func (h *ContractHandle) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return h.confirmer.WaitForReceipt(ctx, tx)
}
