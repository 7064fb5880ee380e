// Package provider implements the wallet provider on top of a local signing
// key and one JSON-RPC endpoint per known chain.
package provider

import (
	"context"
	"crowdfund/domain"
	"crowdfund/usecase"
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrorUnknownChain  = fmt.Errorf("unrecognized chain id")
	ErrorChainMismatch = fmt.Errorf("endpoint serves another chain")
	ErrorNotConnected  = fmt.Errorf("provider is not connected")
	ErrorNoKey         = fmt.Errorf("no account is configured in the wallet")
	ErrorNotAuthorized = fmt.Errorf("not authorized to sign for this account")
)

// Approver asks the wallet holder to confirm a request.
type Approver func(ctx context.Context, prompt string) (bool, error)

// Client is the RPC connection the provider hands out as backend.
type Client interface {
	usecase.Backend
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

type Dialer func(ctx context.Context, url string) (Client, error)

func DialEthereum(ctx context.Context, url string) (Client, error) {
	return ethclient.DialContext(ctx, url)
}

type Options struct {
	Endpoints map[uint64]string
	// ChainID is the chain the wallet attaches to first.
	ChainID       uint64
	Key           *ecdsa.PrivateKey
	Preauthorized bool
	Approver      Approver
	Dialer        Dialer
}

type KeyedProvider struct {
	dial     Dialer
	approver Approver

	mu         sync.RWMutex
	endpoints  map[uint64]string
	chainID    uint64
	client     Client
	key        *ecdsa.PrivateKey
	authorized bool

	listenersMu sync.Mutex
	listeners   map[int]func(domain.ProviderEvent)
	nextID      int
}

func New(ctx context.Context, opts Options) (*KeyedProvider, error) {
	dial := opts.Dialer
	if dial == nil {
		dial = DialEthereum
	}

	p := &KeyedProvider{
		dial:       dial,
		approver:   opts.Approver,
		endpoints:  copyEndpoints(opts.Endpoints),
		key:        opts.Key,
		authorized: opts.Preauthorized,
		listeners:  make(map[int]func(domain.ProviderEvent)),
	}

	client, err := p.attach(ctx, opts.ChainID)
	if err != nil {
		return nil, err
	}
	p.client = client
	p.chainID = opts.ChainID

	return p, nil
}

func copyEndpoints(endpoints map[uint64]string) map[uint64]string {
	result := make(map[uint64]string, len(endpoints))
	for k, v := range endpoints {
		result[k] = v
	}
	return result
}

// attach dials the endpoint of chainID and checks the node serves that chain.
func (p *KeyedProvider) attach(ctx context.Context, chainID uint64) (Client, error) {
	p.mu.RLock()
	url, ok := p.endpoints[chainID]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrorUnknownChain, chainID)
	}

	client, err := p.dial(ctx, url)
	if err != nil {
		return nil, domain.NewError(domain.KindProviderUnavailable, "dial", err)
	}

	served, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, domain.NewError(domain.KindProviderUnavailable, "read chain id", err)
	}
	if !served.IsUint64() || served.Uint64() != chainID {
		client.Close()
		return nil, fmt.Errorf("%w: expected %v, got %v", ErrorChainMismatch, chainID, served)
	}
	return client, nil
}

func (p *KeyedProvider) address() (common.Address, bool) {
	if p.key == nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(p.key.PublicKey), true
}

func (p *KeyedProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	addr, ok := p.address()
	if !ok || !p.authorized {
		return []common.Address{}, nil
	}
	return []common.Address{addr}, nil
}

func (p *KeyedProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	const op = "request accounts"

	p.mu.RLock()
	addr, ok := p.address()
	p.mu.RUnlock()
	if !ok {
		return nil, domain.NewError(domain.KindWalletRejected, op, ErrorNoKey)
	}

	if p.approver != nil {
		approved, err := p.approver(ctx, fmt.Sprintf("Connect account %v?", addr.Hex()))
		if err != nil {
			return nil, domain.NewError(domain.KindWalletRejected, op, err)
		}
		if !approved {
			return nil, domain.ErrorWalletRejected
		}
	}

	p.mu.Lock()
	p.authorized = true
	p.mu.Unlock()

	return []common.Address{addr}, nil
}

// ChainID returns the chain the wallet is attached to.
func (p *KeyedProvider) ChainID(ctx context.Context) (*big.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return nil, ErrorNotConnected
	}
	return new(big.Int).SetUint64(p.chainID), nil
}

// SwitchChain re-attaches the wallet to another known chain and notifies the
// listeners.
func (p *KeyedProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	if chainID == nil || !chainID.IsUint64() {
		return fmt.Errorf("%w: %v", ErrorUnknownChain, chainID)
	}
	id := chainID.Uint64()

	if p.approver != nil {
		approved, err := p.approver(ctx, fmt.Sprintf("Switch network to chain %v?", id))
		if err != nil {
			return err
		}
		if !approved {
			return domain.ErrorWalletRejected
		}
	}

	client, err := p.attach(ctx, id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.client
	p.client = client
	p.chainID = id
	p.mu.Unlock()

	if old != nil {
		old.Close()
	}

	p.emit(domain.ProviderEvent{Kind: domain.EventChainChanged, ChainID: new(big.Int).SetUint64(id)})
	return nil
}

func (p *KeyedProvider) Subscribe(listener func(domain.ProviderEvent)) func() {
	p.listenersMu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.listenersMu.Unlock()

	return func() {
		p.listenersMu.Lock()
		delete(p.listeners, id)
		p.listenersMu.Unlock()
	}
}

func (p *KeyedProvider) emit(event domain.ProviderEvent) {
	p.listenersMu.Lock()
	listeners := make([]func(domain.ProviderEvent), 0, len(p.listeners))
	for _, listener := range p.listeners {
		listeners = append(listeners, listener)
	}
	p.listenersMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func (p *KeyedProvider) Backend() (usecase.Backend, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return nil, ErrorNotConnected
	}
	return p.client, nil
}

// Signer signs transactions of account with the wallet key for the attached
// chain, after the approver agreed.
func (p *KeyedProvider) Signer(account common.Address) (bind.SignerFn, error) {
	p.mu.RLock()
	addr, ok := p.address()
	key := p.key
	p.mu.RUnlock()

	if !ok || addr != account {
		return nil, ErrorNotAuthorized
	}

	return func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if from != account {
			return nil, ErrorNotAuthorized
		}

		if p.approver != nil {
			to := "a new contract"
			if tx.To() != nil {
				to = tx.To().Hex()
			}
			prompt := fmt.Sprintf("Sign transaction to %v with value %v ETH?", to, domain.FormatEther(tx.Value()))
			approved, err := p.approver(context.Background(), prompt)
			if err != nil {
				return nil, err
			}
			if !approved {
				return nil, domain.ErrorWalletRejected
			}
		}

		p.mu.RLock()
		chainID := new(big.Int).SetUint64(p.chainID)
		p.mu.RUnlock()

		return types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	}, nil
}

// SetKey replaces the wallet key. Listeners hear about it when the account
// changed.
func (p *KeyedProvider) SetKey(key *ecdsa.PrivateKey, preauthorized bool) {
	p.mu.Lock()
	before, hadKey := p.address()
	p.key = key
	after, hasKey := p.address()
	changed := hadKey != hasKey || before != after
	if changed {
		p.authorized = preauthorized
	}
	p.mu.Unlock()

	if !changed {
		return
	}

	accounts, _ := p.Accounts(context.Background())
	log.Printf("🔵 wallet account changed [accounts: %v]\n", len(accounts))
	p.emit(domain.ProviderEvent{Kind: domain.EventAccountsChanged, Accounts: accounts})
}

// SetEndpoints replaces the known endpoints. When the attached chain's endpoint
// moved, the wallet re-attaches and listeners hear about a network change.
func (p *KeyedProvider) SetEndpoints(ctx context.Context, endpoints map[uint64]string) error {
	p.mu.Lock()
	chainID := p.chainID
	moved := p.endpoints[chainID] != endpoints[chainID]
	p.endpoints = copyEndpoints(endpoints)
	p.mu.Unlock()

	if !moved {
		return nil
	}
	return p.SwitchChain(ctx, new(big.Int).SetUint64(chainID))
}

func (p *KeyedProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
