package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/interface/exporter"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"
)

const (
	DefaultConfirmTimeout = 5 * time.Minute
	DefaultPollInterval   = time.Second
)

var (
	ErrorConfirmTimeOut = fmt.Errorf("timeout waiting for transaction receipt")
	ErrorReverted       = fmt.Errorf("transaction reverted")
)

type ConfirmOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

type ConfirmInteractor struct {
	backend Backend
	options ConfirmOptions
}

func NewConfirmInteractor(backend Backend, options ConfirmOptions) *ConfirmInteractor {
	if options.Timeout <= 0 {
		options.Timeout = DefaultConfirmTimeout
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	return &ConfirmInteractor{
		backend: backend,
		options: options,
	}
}

// WaitForReceipt polls for the receipt of tx until it is mined, the timeout
// passes or ctx is done. A reverted receipt is a TransactionFailed error.
func (interactor *ConfirmInteractor) WaitForReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	const op = "confirm transaction"

	ctx, cancel := context.WithTimeout(ctx, interactor.options.Timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interactor.options.PollInterval), 1)
	start := time.Now()

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, domain.NewError(domain.KindTransactionFailed, op,
				fmt.Errorf("%w [hash: %v]: %v", ErrorConfirmTimeOut, tx.Hash().Hex(), err))
		}

		receipt, err := interactor.backend.TransactionReceipt(ctx, tx.Hash())
		if err != nil {
			if !errors.Is(err, ethereum.NotFound) {
				log.Printf("🟡 getting receipt [hash: %v] - %v\n", tx.Hash().Hex(), err.Error())
			}
			continue
		}

		exporter.ObserveConfirmation(time.Since(start).Seconds())
		if receipt.Status != types.ReceiptStatusSuccessful {
			exporter.IncConfirmedCount("reverted")
			return receipt, domain.NewError(domain.KindTransactionFailed, op,
				fmt.Errorf("%w [hash: %v, block: %v]", ErrorReverted, tx.Hash().Hex(), receipt.BlockNumber))
		}

		exporter.IncConfirmedCount("successful")
		return receipt, nil
	}
}
