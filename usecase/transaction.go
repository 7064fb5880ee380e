package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/interface/exporter"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
)

const documentLinkPrefix = "\n\nDocument Link: "

type CreateProjectParams struct {
	Title       string
	Description string
	ImageURL    string
	// Cost in ether, as a human decimal.
	Cost      string
	ExpiresAt time.Time
}

type UpdateProjectParams struct {
	ID          int64
	Title       string
	Description string
	ImageURL    string
	ExpiresAt   time.Time
}

// DocumentLink appends a document reference to a project description. It is
// a caller's choice and is never applied implicitly.
func DocumentLink(description, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return description
	}
	return description + documentLinkPrefix + link
}

func invalid(format string, args ...interface{}) error {
	return domain.ErrorInvalidInput.WithMessage(format, args...)
}

func validateContent(title, description, imageURL string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return invalid("title is required")
	case strings.TrimSpace(description) == "":
		return invalid("description is required")
	case strings.TrimSpace(imageURL) == "":
		return invalid("image URL is required")
	}
	return nil
}

func validateID(id int64) error {
	if id < 0 {
		return invalid("project id must not be negative")
	}
	return nil
}

func positiveEther(value string) (*big.Int, error) {
	wei, err := domain.ParseEther(value)
	if err != nil {
		return nil, err
	}
	if wei.Sign() <= 0 {
		return nil, invalid("amount must be greater than zero")
	}
	return wei, nil
}

// TransactionInteractor issues the state-changing contract calls. Every call
// runs the same protocol: preconditions, fresh contract handle, submission,
// confirmation, then the matching reload. Failures abort the call and nothing
// is retried; resubmitting is left to the caller.
type TransactionInteractor struct {
	session   Session
	contracts ContractSource
	syncer    Syncer
	now       func() time.Time
}

func NewTransactionInteractor(session Session, contracts ContractSource, syncer Syncer) *TransactionInteractor {
	return &TransactionInteractor{
		session:   session,
		contracts: contracts,
		syncer:    syncer,
		now:       time.Now,
	}
}

func (interactor *TransactionInteractor) CreateProject(ctx context.Context, params CreateProjectParams) (*domain.TxHandle, error) {
	const op = "create project"

	if !interactor.session.HasProvider() {
		return nil, Report(op, domain.ErrorWalletMissing)
	}
	if err := validateContent(params.Title, params.Description, params.ImageURL); err != nil {
		return nil, Report(op, err)
	}
	cost, err := positiveEther(params.Cost)
	if err != nil {
		return nil, Report(op, err)
	}
	if !params.ExpiresAt.After(interactor.now()) {
		return nil, Report(op, invalid("expiry date must be in the future"))
	}

	handle, err := interactor.submit(ctx, op, false, func(contract Contract) (*types.Transaction, error) {
		return contract.CreateProject(ctx, params.Title, params.Description, params.ImageURL, cost, params.ExpiresAt.Unix())
	})
	if err != nil {
		return nil, err
	}
	return handle, interactor.syncer.LoadProjects(ctx)
}

func (interactor *TransactionInteractor) UpdateProject(ctx context.Context, params UpdateProjectParams) (*domain.TxHandle, error) {
	const op = "update project"

	if !interactor.session.HasProvider() {
		return nil, Report(op, domain.ErrorWalletMissing)
	}
	if err := validateID(params.ID); err != nil {
		return nil, Report(op, err)
	}
	if err := validateContent(params.Title, params.Description, params.ImageURL); err != nil {
		return nil, Report(op, err)
	}
	if params.ExpiresAt.IsZero() {
		return nil, Report(op, invalid("expiry date is required"))
	}

	handle, err := interactor.submit(ctx, op, false, func(contract Contract) (*types.Transaction, error) {
		return contract.UpdateProject(ctx, params.ID, params.Title, params.Description, params.ImageURL, params.ExpiresAt.Unix())
	})
	if err != nil {
		return nil, err
	}
	return handle, interactor.syncer.LoadProject(ctx, params.ID)
}

// DeleteProject waits for confirmation and reloads the project list, like
// every other mutating call.
func (interactor *TransactionInteractor) DeleteProject(ctx context.Context, id int64) (*domain.TxHandle, error) {
	const op = "delete project"

	if !interactor.session.HasProvider() {
		return nil, Report(op, domain.ErrorWalletMissing)
	}
	if err := validateID(id); err != nil {
		return nil, Report(op, err)
	}

	handle, err := interactor.submit(ctx, op, false, func(contract Contract) (*types.Transaction, error) {
		return contract.DeleteProject(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return handle, interactor.syncer.LoadProjects(ctx)
}

// BackProject sends amount (ether, human decimal) to the project.
func (interactor *TransactionInteractor) BackProject(ctx context.Context, id int64, amount string) (*domain.TxHandle, error) {
	const op = "back project"

	if !interactor.session.HasProvider() {
		return nil, Report(op, domain.ErrorWalletMissing)
	}
	if err := validateID(id); err != nil {
		return nil, Report(op, err)
	}
	value, err := positiveEther(amount)
	if err != nil {
		return nil, Report(op, err)
	}

	handle, err := interactor.submit(ctx, op, true, func(contract Contract) (*types.Transaction, error) {
		return contract.BackProject(ctx, id, value)
	})
	if err != nil {
		return nil, err
	}
	return handle, interactor.syncer.LoadBackers(ctx, id)
}

// PayoutProject releases the raised funds. The contract marks backers as
// refunded instead of removing them, so the backers are reloaded.
func (interactor *TransactionInteractor) PayoutProject(ctx context.Context, id int64) (*domain.TxHandle, error) {
	const op = "payout project"

	if !interactor.session.HasProvider() {
		return nil, Report(op, domain.ErrorWalletMissing)
	}
	if err := validateID(id); err != nil {
		return nil, Report(op, err)
	}

	handle, err := interactor.submit(ctx, op, true, func(contract Contract) (*types.Transaction, error) {
		return contract.PayoutProject(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return handle, interactor.syncer.LoadBackers(ctx, id)
}

func (interactor *TransactionInteractor) submit(ctx context.Context, op string, valueBearing bool, call func(Contract) (*types.Transaction, error)) (*domain.TxHandle, error) {
	if valueBearing {
		if err := interactor.session.EnsureNetwork(ctx); err != nil {
			return nil, Report(op, err)
		}
	}

	contract, err := interactor.contracts.GetContractHandle(ctx)
	if err != nil {
		return nil, Report(op, err)
	}

	tx, err := call(contract)
	if err != nil {
		return nil, Report(op, err)
	}
	if tx == nil {
		return nil, Report(op, domain.NewError(domain.KindTransactionFailed, op, fmt.Errorf("no transaction returned")))
	}

	exporter.IncSubmittedCount(op)
	handle := domain.NewTxHandle(op, tx)
	log.Printf("%v submitted [call: %v, hash: %v]\n", op, handle.CallID, handle.Hash.Hex())

	receipt, err := contract.Confirm(ctx, tx)
	if err != nil {
		return nil, Report(op, err)
	}
	handle.Confirm(receipt, interactor.now())
	log.Printf("%v confirmed [call: %v, block: %v, gas: %v]\n", op, handle.CallID, handle.BlockNumber(), handle.GasUsed())

	return handle, nil
}
