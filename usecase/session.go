package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/interface/store"
	"log"
	"math/big"
	"strings"
	"sync"
)

type SessionState uint8

const (
	StateDisconnected SessionState = iota
	StateConnected
)

func (s SessionState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// SessionInteractor holds the wallet session: the active account and whether
// the provider is attached to the required network. It moves between
// Disconnected and Connected on connection checks and provider events.
type SessionInteractor struct {
	provider Provider
	store    *store.Store
	chainID  *big.Int
	network  string

	listenOnce  sync.Once
	unsubscribe func()

	mu       sync.Mutex
	state    SessionState
	account  string
	onReload func(ctx context.Context)
}

func NewSessionInteractor(provider Provider, st *store.Store, chainID *big.Int, network string) *SessionInteractor {
	return &SessionInteractor{
		provider: provider,
		store:    st,
		chainID:  new(big.Int).Set(chainID),
		network:  network,
	}
}

// OnReload sets the hook run after a network change wiped the session and the
// store.
func (interactor *SessionInteractor) OnReload(fn func(ctx context.Context)) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	interactor.onReload = fn
}

func (interactor *SessionInteractor) HasProvider() bool {
	return interactor.provider != nil
}

func (interactor *SessionInteractor) State() (SessionState, string) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state, interactor.account
}

// CheckConnection looks for an already authorized account without prompting.
// It returns false when the wallet holder still has to connect.
func (interactor *SessionInteractor) CheckConnection(ctx context.Context) (bool, error) {
	const op = "check connection"

	if interactor.provider == nil {
		return false, Report(op, domain.ErrorWalletMissing)
	}
	interactor.listen()

	accounts, err := interactor.provider.Accounts(ctx)
	if err != nil {
		return false, Report(op, domain.NewError(domain.KindProviderUnavailable, op, err))
	}

	if len(accounts) == 0 {
		interactor.disconnect()
		log.Printf("🔵 please connect wallet.\n")
		return false, nil
	}

	if err := interactor.EnsureNetwork(ctx); err != nil {
		interactor.disconnect()
		return false, Report(op, err)
	}

	interactor.connected(strings.ToLower(accounts[0].Hex()))
	return true, nil
}

// Connect asks the wallet holder for account access, then makes sure the
// provider is on the required network.
func (interactor *SessionInteractor) Connect(ctx context.Context) (string, error) {
	const op = "connect wallet"

	if interactor.provider == nil {
		return "", Report(op, domain.ErrorWalletMissing)
	}
	interactor.listen()

	accounts, err := interactor.provider.RequestAccounts(ctx)
	if err != nil {
		return "", Report(op, err)
	}
	if len(accounts) == 0 {
		return "", Report(op, domain.ErrorWalletRejected)
	}

	if err := interactor.EnsureNetwork(ctx); err != nil {
		return "", Report(op, err)
	}

	account := strings.ToLower(accounts[0].Hex())
	interactor.connected(account)
	log.Printf("Successfully connected to %v [account: %v]\n", interactor.network, account)
	return account, nil
}

// EnsureNetwork asks the provider to switch when it is attached to another
// chain. It never issues a switch request when the chain already matches.
func (interactor *SessionInteractor) EnsureNetwork(ctx context.Context) error {
	const op = "ensure network"

	if interactor.provider == nil {
		return domain.ErrorWalletMissing
	}

	current, err := interactor.provider.ChainID(ctx)
	if err != nil {
		return domain.NewError(domain.KindProviderUnavailable, op, err)
	}
	if current.Cmp(interactor.chainID) == 0 {
		return nil
	}

	log.Printf("🔵 switching network [from: %v, to: %v]\n", current, interactor.chainID)
	if err := interactor.provider.SwitchChain(ctx, interactor.chainID); err != nil {
		return domain.NewError(domain.KindWrongNetwork, op, err).
			WithMessage("please switch to the %v network in your wallet", interactor.network)
	}
	return nil
}

// Handle applies a provider event to the session. A network change starts
// over like a fresh page load: the session and the store are wiped, the reload
// hook runs, then the connection is checked again.
func (interactor *SessionInteractor) Handle(ctx context.Context, event domain.ProviderEvent) {
	switch event.Kind {
	case domain.EventAccountsChanged:
		log.Printf("🔵 accounts changed, checking connection again\n")
		interactor.CheckConnection(ctx)

	case domain.EventChainChanged:
		log.Printf("🔵 network changed [chain: %v], reloading\n", event.ChainID)
		interactor.disconnect()
		interactor.store.Reset()

		interactor.mu.Lock()
		reload := interactor.onReload
		interactor.mu.Unlock()
		if reload != nil {
			reload(ctx)
		}
		interactor.CheckConnection(ctx)
	}
}

// Close removes the provider listener.
func (interactor *SessionInteractor) Close() {
	interactor.mu.Lock()
	unsubscribe := interactor.unsubscribe
	interactor.unsubscribe = nil
	interactor.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// listen registers the provider listener once for the session's lifetime.
func (interactor *SessionInteractor) listen() {
	interactor.listenOnce.Do(func() {
		unsubscribe := interactor.provider.Subscribe(func(event domain.ProviderEvent) {
			interactor.Handle(context.Background(), event)
		})

		interactor.mu.Lock()
		interactor.unsubscribe = unsubscribe
		interactor.mu.Unlock()
	})
}

func (interactor *SessionInteractor) connected(account string) {
	interactor.mu.Lock()
	interactor.state = StateConnected
	interactor.account = account
	interactor.mu.Unlock()

	interactor.store.ConnectedAccount.Set(account)
}

func (interactor *SessionInteractor) disconnect() {
	interactor.mu.Lock()
	interactor.state = StateDisconnected
	interactor.account = ""
	interactor.mu.Unlock()

	interactor.store.ConnectedAccount.Set("")
}
