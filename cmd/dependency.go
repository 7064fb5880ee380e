package cmd

import (
	"context"
	"crowdfund/domain/config"
	"crowdfund/infrastructure/artifacts"
	"crowdfund/infrastructure/dbhandler"
	"crowdfund/infrastructure/provider"
	"crowdfund/interface/exporter"
	"crowdfund/interface/presenter"
	"crowdfund/interface/repository"
	"crowdfund/interface/store"
	"crowdfund/usecase"
	"log"
)

func defaultDependencyInject(ctx context.Context) error {
	exporter.Init()

	var persister store.Persister
	if dbURI := config.GetDbUri(); dbURI != "" {
		var err error
		dbHandler, err = dbhandler.Open(dbURI)
		if err != nil {
			return err
		}

		snapshotRepository := repository.NewSnapshotRepository(dbHandler)
		if err := snapshotRepository.EnsureSchema(ctx); err != nil {
			return err
		}
		snapshotInteractor = usecase.NewSnapshotInteractor(snapshotRepository)
		persister = snapshotInteractor
	}
	appStore = store.New(persister)

	// A missing wallet stays a nil interface, so every operation can report it.
	var walletProvider usecase.Provider
	if config.HasWallet() {
		var approver provider.Approver
		if config.IsConfirmPrompt() {
			approver = stdinApprover
		}

		var err error
		keyedProvider, err = provider.New(ctx, provider.Options{
			Endpoints:     config.GetEndpoints(),
			ChainID:       config.GetChainID().Uint64(),
			Key:           config.GetWalletPrivateKey(),
			Preauthorized: config.IsPreauthorized(),
			Approver:      approver,
		})
		if err != nil {
			log.Printf("🔴 Unable to attach wallet provider - %v\n", err.Error())
			return err
		}
		walletProvider = keyedProvider
	} else {
		log.Printf("⚠️ No wallet is configured, set wallet.private_key or wallet.private_key_file.\n")
	}

	contractArtifacts, err := artifacts.Load(config.GetContractAddress(), config.GetContractAddressFile(), config.GetContractAbiFile())
	if err != nil {
		return err
	}

	confirmOptions := usecase.ConfirmOptions{
		Timeout:      config.GetConfirmTimeout(),
		PollInterval: config.GetConfirmPollInterval(),
	}

	contractInteractor = usecase.NewContractInteractor(walletProvider, contractArtifacts.Address, contractArtifacts.ABI, confirmOptions)
	sessionInteractor = usecase.NewSessionInteractor(walletProvider, appStore, config.GetChainID(), config.GetNetworkName())
	syncInteractor = usecase.NewSyncInteractor(contractInteractor, appStore)
	transactionInteractor = usecase.NewTransactionInteractor(sessionInteractor, contractInteractor, syncInteractor)

	return nil
}

// teardown flushes pending snapshots and releases connections.
func teardown() {
	if sessionInteractor != nil {
		sessionInteractor.Close()
	}
	if snapshotInteractor != nil {
		snapshotInteractor.Close()
	}
	if keyedProvider != nil {
		keyedProvider.Close()
	}
	if dbHandler != nil {
		dbHandler.Close()
	}
}

var dbHandler *dbhandler.DBHandler
var keyedProvider *provider.KeyedProvider
var appStore *store.Store
var output *presenter.Presenter
var snapshotInteractor *usecase.SnapshotInteractor
var contractInteractor *usecase.ContractInteractor
var sessionInteractor *usecase.SessionInteractor
var syncInteractor *usecase.SyncInteractor
var transactionInteractor *usecase.TransactionInteractor
