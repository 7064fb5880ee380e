package provider

import (
	"context"
	"crowdfund/domain"
	"crowdfund/usecase"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const hardhatKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var hardhatAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type fakeClient struct {
	usecase.Backend

	chainID *big.Int
	closed  bool
}

func (c *fakeClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.chainID, nil
}

func (c *fakeClient) Close() {
	c.closed = true
}

// fakeNetwork serves one chain id per endpoint url.
type fakeNetwork struct {
	chains  map[string]int64
	clients []*fakeClient
}

func (n *fakeNetwork) dial(ctx context.Context, url string) (Client, error) {
	id, ok := n.chains[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	client := &fakeClient{chainID: big.NewInt(id)}
	n.clients = append(n.clients, client)
	return client, nil
}

func newNetwork() *fakeNetwork {
	return &fakeNetwork{chains: map[string]int64{
		"http://sepolia":  11155111,
		"http://mainnet":  1,
		"http://sepolia2": 11155111,
	}}
}

func newProvider(t *testing.T, network *fakeNetwork, opts Options) *KeyedProvider {
	t.Helper()
	if opts.Endpoints == nil {
		opts.Endpoints = map[uint64]string{11155111: "http://sepolia", 1: "http://mainnet"}
	}
	if opts.ChainID == 0 {
		opts.ChainID = 1
	}
	opts.Dialer = network.dial

	p, err := New(context.Background(), opts)
	require.NoError(t, err)
	return p
}

func testKey(t *testing.T) *Options {
	key, err := crypto.HexToECDSA(hardhatKey)
	require.NoError(t, err)
	return &Options{Key: key}
}

func record(p *KeyedProvider) *[]domain.ProviderEvent {
	events := &[]domain.ProviderEvent{}
	p.Subscribe(func(event domain.ProviderEvent) {
		*events = append(*events, event)
	})
	return events
}

func TestNewChecksServedChain(t *testing.T) {
	network := newNetwork()
	network.chains["http://sepolia"] = 5

	_, err := New(context.Background(), Options{
		Endpoints: map[uint64]string{11155111: "http://sepolia"},
		ChainID:   11155111,
		Dialer:    network.dial,
	})
	require.ErrorIs(t, err, ErrorChainMismatch)
	require.True(t, network.clients[0].closed)

	_, err = New(context.Background(), Options{ChainID: 42, Dialer: network.dial})
	require.ErrorIs(t, err, ErrorUnknownChain)
}

func TestAccountsNeedAuthorization(t *testing.T) {
	opts := testKey(t)
	approvals := 0
	opts.Approver = func(ctx context.Context, prompt string) (bool, error) {
		approvals++
		return true, nil
	}
	p := newProvider(t, newNetwork(), *opts)

	accounts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	require.Empty(t, accounts)

	accounts, err = p.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []common.Address{hardhatAddress}, accounts)
	require.Equal(t, 1, approvals)

	accounts, err = p.Accounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []common.Address{hardhatAddress}, accounts)
}

func TestRequestAccountsRefused(t *testing.T) {
	opts := testKey(t)
	opts.Approver = func(ctx context.Context, prompt string) (bool, error) { return false, nil }
	p := newProvider(t, newNetwork(), *opts)

	_, err := p.RequestAccounts(context.Background())
	require.True(t, errors.Is(err, domain.ErrorWalletRejected))

	p = newProvider(t, newNetwork(), Options{})
	_, err = p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, ErrorNoKey)
}

func TestSwitchChain(t *testing.T) {
	network := newNetwork()
	p := newProvider(t, network, Options{})
	events := record(p)

	chainID, err := p.ChainID(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), chainID.Int64())

	require.NoError(t, p.SwitchChain(context.Background(), big.NewInt(11155111)))

	chainID, _ = p.ChainID(context.Background())
	require.Equal(t, int64(11155111), chainID.Int64())
	require.True(t, network.clients[0].closed)
	require.Len(t, *events, 1)
	require.Equal(t, domain.EventChainChanged, (*events)[0].Kind)
	require.Equal(t, int64(11155111), (*events)[0].ChainID.Int64())

	backend, err := p.Backend()
	require.NoError(t, err)
	require.Same(t, network.clients[1], backend)
}

func TestSwitchToUnknownChain(t *testing.T) {
	p := newProvider(t, newNetwork(), Options{})
	events := record(p)

	err := p.SwitchChain(context.Background(), big.NewInt(10))
	require.ErrorIs(t, err, ErrorUnknownChain)
	require.Empty(t, *events)

	chainID, _ := p.ChainID(context.Background())
	require.Equal(t, int64(1), chainID.Int64())
}

func TestSetKeyEmitsAccountsChanged(t *testing.T) {
	opts := testKey(t)
	opts.Preauthorized = true
	p := newProvider(t, newNetwork(), *opts)
	events := record(p)

	p.SetKey(opts.Key, true)
	require.Empty(t, *events)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	p.SetKey(other, true)

	require.Len(t, *events, 1)
	require.Equal(t, domain.EventAccountsChanged, (*events)[0].Kind)
	require.Equal(t, []common.Address{crypto.PubkeyToAddress(other.PublicKey)}, (*events)[0].Accounts)

	p.SetKey(nil, true)
	require.Len(t, *events, 2)
	require.Empty(t, (*events)[1].Accounts)
}

func TestSignerSignsForAttachedChain(t *testing.T) {
	opts := testKey(t)
	opts.Preauthorized = true
	p := newProvider(t, newNetwork(), *opts)

	signer, err := p.Signer(hardhatAddress)
	require.NoError(t, err)

	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Value: big.NewInt(1), Gas: 21000, GasPrice: big.NewInt(1)})

	signed, err := signer(hardhatAddress, tx)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), signed)
	require.NoError(t, err)
	require.Equal(t, hardhatAddress, sender)

	_, err = signer(to, tx)
	require.ErrorIs(t, err, ErrorNotAuthorized)

	_, err = p.Signer(to)
	require.ErrorIs(t, err, ErrorNotAuthorized)
}

func TestSetEndpointsReattachesMovedChain(t *testing.T) {
	network := newNetwork()
	p := newProvider(t, network, Options{ChainID: 11155111})
	events := record(p)

	require.NoError(t, p.SetEndpoints(context.Background(), map[uint64]string{11155111: "http://sepolia", 1: "http://mainnet"}))
	require.Empty(t, *events)

	require.NoError(t, p.SetEndpoints(context.Background(), map[uint64]string{11155111: "http://sepolia2"}))
	require.Len(t, *events, 1)
	require.Equal(t, domain.EventChainChanged, (*events)[0].Kind)
	require.Len(t, network.clients, 2)
}

func TestUnsubscribe(t *testing.T) {
	p := newProvider(t, newNetwork(), Options{})
	calls := 0
	unsubscribe := p.Subscribe(func(domain.ProviderEvent) { calls++ })
	unsubscribe()

	require.NoError(t, p.SwitchChain(context.Background(), big.NewInt(11155111)))
	require.Zero(t, calls)

	p.Close()
	_, err := p.Backend()
	require.ErrorIs(t, err, ErrorNotConnected)
}
