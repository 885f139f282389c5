package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/urgent2kay/dashboard-core/internal/errs"
	"github.com/urgent2kay/dashboard-core/internal/localstore"
	"github.com/urgent2kay/dashboard-core/internal/model"
)

// Notifier receives user-facing wallet notifications. Satisfied by
// notify.Center.
type Notifier interface {
	Info(title, message string)
	Warning(title, message string)
	Error(title, message string)
}

// Bridge owns the process-wide WalletSnapshot and keeps it consistent with
// the external provider. Event handlers always read the current snapshot
// under the lock, never a captured copy.
type Bridge struct {
	mu   sync.Mutex
	snap model.WalletSnapshot

	provider      Provider
	expectedChain string
	tokenAddr     string
	files         *localstore.Store
	notifier      Notifier
	log           *zap.Logger
	reload        func()

	watching bool
	unsubs   []func()

	subMu   sync.Mutex
	subs    map[int]func(model.WalletSnapshot)
	nextSub int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithNotifier wires user-facing wallet notifications.
func WithNotifier(n Notifier) Option { return func(b *Bridge) { b.notifier = n } }

// WithLocalStore persists the last known address across runs.
func WithLocalStore(s *localstore.Store) Option { return func(b *Bridge) { b.files = s } }

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(b *Bridge) { b.log = l } }

// WithReloadFunc sets the action taken on a chain-change event. Contract
// bindings are tied to one network context, so the event is unrecoverable
// in-process; the hosting environment must restart.
func WithReloadFunc(fn func()) Option { return func(b *Bridge) { b.reload = fn } }

// WithTokenAddress sets the U2K ERC-20 contract queried for token balances.
func WithTokenAddress(addr string) Option { return func(b *Bridge) { b.tokenAddr = addr } }

// New constructs a Bridge in the disconnected state. provider may be nil;
// Watch reports ErrWalletUnavailable in that case.
func New(provider Provider, expectedChainID string, opts ...Option) *Bridge {
	b := &Bridge{
		provider:      provider,
		expectedChain: expectedChainID,
		log:           zap.NewNop(),
		subs:          make(map[int]func(model.WalletSnapshot)),
		snap:          model.WalletSnapshot{State: model.WalletDisconnected},
	}
	for _, o := range opts {
		o(b)
	}
	if b.reload == nil {
		b.reload = func() {
			b.log.Warn("chain changed; in-process state is stale, restart required")
		}
	}
	return b
}

// Watch detects the provider once and registers the event handlers for the
// bridge lifetime. A missing provider short-circuits all event wiring; the
// bridge never polls for one to appear.
func (b *Bridge) Watch() error {
	if b.provider == nil {
		b.setError(errs.ErrWalletUnavailable.Error())
		return errs.ErrWalletUnavailable
	}

	b.mu.Lock()
	if b.watching {
		b.mu.Unlock()
		return nil
	}
	b.watching = true
	b.mu.Unlock()

	unsubAccounts, err := b.provider.On(EventAccountsChanged, b.onAccountsChanged)
	if err != nil {
		return fmt.Errorf("%w: subscribe %s: %v", errs.ErrWalletUnavailable, EventAccountsChanged, err)
	}
	unsubChain, err := b.provider.On(EventChainChanged, b.onChainChanged)
	if err != nil {
		unsubAccounts()
		return fmt.Errorf("%w: subscribe %s: %v", errs.ErrWalletUnavailable, EventChainChanged, err)
	}

	b.mu.Lock()
	b.unsubs = append(b.unsubs, unsubAccounts, unsubChain)
	b.mu.Unlock()
	return nil
}

// Close unsubscribes the event handlers so reconnects do not accumulate
// duplicates.
func (b *Bridge) Close() {
	b.mu.Lock()
	unsubs := b.unsubs
	b.unsubs = nil
	b.watching = false
	b.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

// Connect asks the provider for accounts and the current chain, then loads
// balances. On success the state is one of the connected-* states depending
// on the chain id check.
func (b *Bridge) Connect(ctx context.Context) error {
	if b.provider == nil {
		b.setError(errs.ErrWalletUnavailable.Error())
		return errs.ErrWalletUnavailable
	}

	b.mu.Lock()
	b.snap.State = model.WalletConnecting
	b.snap.Connecting = true
	b.snap.LastError = ""
	snap := b.snap
	b.mu.Unlock()
	b.publish(snap)

	raw, err := b.provider.Request(ctx, methodRequestAccounts)
	if err != nil {
		err = mapProviderErr(err)
		b.setError(err.Error())
		return err
	}
	var accounts []string
	if jerr := json.Unmarshal(raw, &accounts); jerr != nil || len(accounts) == 0 {
		err = fmt.Errorf("%w: no accounts returned", errs.ErrWalletUnavailable)
		b.setError(err.Error())
		return err
	}
	address := accounts[0]

	chainRaw, err := b.provider.Request(ctx, methodChainID)
	if err != nil {
		err = mapProviderErr(err)
		b.setError(err.Error())
		return err
	}
	var chainID string
	_ = json.Unmarshal(chainRaw, &chainID)
	correct := strings.EqualFold(chainID, b.expectedChain)

	b.mu.Lock()
	b.snap.Address = address
	b.snap.ChainID = chainID
	b.snap.IsCorrectNetwork = correct
	b.snap.Connecting = false
	if correct {
		b.snap.State = model.WalletConnectedCorrectNetwork
	} else {
		b.snap.State = model.WalletConnectedWrongNetwork
		b.snap.LastError = errs.ErrWrongNetwork.Error()
	}
	snap = b.snap
	b.mu.Unlock()
	b.publish(snap)

	if b.files != nil {
		if err := b.files.SaveWalletAddress(address); err != nil {
			b.log.Warn("persist wallet address", zap.Error(err))
		}
	}
	b.refreshBalances(ctx)

	b.log.Info("wallet connected",
		zap.String("address", address),
		zap.String("chainID", chainID),
		zap.Bool("correctNetwork", correct),
	)
	if !correct {
		return errs.ErrWrongNetwork
	}
	return nil
}

// Disconnect clears address, balances and bindings from any state.
func (b *Bridge) Disconnect() {
	b.mu.Lock()
	b.snap = model.WalletSnapshot{State: model.WalletDisconnected}
	snap := b.snap
	b.mu.Unlock()

	if b.files != nil {
		_ = b.files.ClearWalletAddress()
	}
	b.publish(snap)
	b.log.Info("wallet disconnected")
}

// SwitchNetwork asks the provider to move to the expected chain. On failure
// the bridge stays in connected-wrong-network and the error is surfaced.
func (b *Bridge) SwitchNetwork(ctx context.Context) error {
	if b.provider == nil {
		return errs.ErrWalletUnavailable
	}

	_, err := b.provider.Request(ctx, methodSwitchChain, map[string]string{"chainId": b.expectedChain})
	if err != nil {
		err = mapProviderErr(err)
		b.mu.Lock()
		b.snap.LastError = err.Error()
		snap := b.snap
		b.mu.Unlock()
		b.publish(snap)
		return err
	}

	b.mu.Lock()
	b.snap.ChainID = b.expectedChain
	b.snap.IsCorrectNetwork = true
	if b.snap.State == model.WalletConnectedWrongNetwork {
		b.snap.State = model.WalletConnectedCorrectNetwork
	}
	b.snap.LastError = ""
	snap := b.snap
	b.mu.Unlock()
	b.publish(snap)

	b.refreshBalances(ctx)
	return nil
}

// Snapshot returns a copy of the current wallet view. Balance fields are
// only meaningful when State.Connected() is true.
func (b *Bridge) Snapshot() model.WalletSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// LastKnownAddress returns the persisted address from a previous run, ""
// when none. It is a display hint, not a connection.
func (b *Bridge) LastKnownAddress() string {
	if b.files == nil {
		return ""
	}
	return b.files.LoadWalletAddress()
}

// Subscribe registers fn for snapshot changes; returns an unsubscribe func.
func (b *Bridge) Subscribe(fn func(model.WalletSnapshot)) func() {
	b.subMu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.subMu.Unlock()
	return func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
}

// onAccountsChanged reacts to the provider's account list changing outside
// our control.
func (b *Bridge) onAccountsChanged(payload json.RawMessage) {
	var accounts []string
	if err := json.Unmarshal(payload, &accounts); err != nil {
		b.log.Warn("bad accountsChanged payload", zap.Error(err))
		return
	}

	if len(accounts) == 0 {
		b.mu.Lock()
		wasConnected := b.snap.State.Connected() || b.snap.State == model.WalletConnecting
		b.snap = model.WalletSnapshot{State: model.WalletDisconnected}
		snap := b.snap
		b.mu.Unlock()

		b.publish(snap)
		if wasConnected && b.notifier != nil {
			b.notifier.Warning("Wallet disconnected", "the wallet reported no connected accounts")
		}
		b.log.Info("provider reported empty account list")
		return
	}

	primary := accounts[0]
	b.mu.Lock()
	changed := !strings.EqualFold(b.snap.Address, primary)
	if changed {
		// address swap is not a state transition; balances follow
		b.snap.Address = primary
	}
	snap := b.snap
	b.mu.Unlock()

	if !changed {
		return
	}
	b.publish(snap)
	if b.files != nil {
		_ = b.files.SaveWalletAddress(primary)
	}
	if b.notifier != nil {
		b.notifier.Info("Account changed", "wallet switched to "+primary)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.refreshBalances(ctx)
}

// onChainChanged treats a network switch as fatal to in-memory state:
// contract instances are bound to one chain, so we hand control to the
// reload hook instead of reconciling live.
func (b *Bridge) onChainChanged(payload json.RawMessage) {
	var chainID string
	_ = json.Unmarshal(payload, &chainID)
	b.log.Warn("chain changed, forcing reload", zap.String("chainID", chainID))
	b.reload()
}

// refreshBalances loads ETH and U2K balances for the current address.
// Failures leave the previous balances and record the error; there is no
// retry loop.
func (b *Bridge) refreshBalances(ctx context.Context) {
	b.mu.Lock()
	address := b.snap.Address
	connected := b.snap.State.Connected()
	b.mu.Unlock()
	if b.provider == nil || address == "" || !connected {
		return
	}

	eth, err := b.fetchEthBalance(ctx, address)
	if err != nil {
		b.log.Warn("eth balance", zap.Error(err))
		b.recordError(err)
		return
	}
	u2k := ""
	if b.tokenAddr != "" {
		u2k, err = b.fetchTokenBalance(ctx, address)
		if err != nil {
			b.log.Warn("u2k balance", zap.Error(err))
			b.recordError(err)
			return
		}
	}

	b.mu.Lock()
	b.snap.EthBalance = eth
	b.snap.U2KBalance = u2k
	snap := b.snap
	b.mu.Unlock()
	b.publish(snap)
}

func (b *Bridge) fetchEthBalance(ctx context.Context, address string) (string, error) {
	raw, err := b.provider.Request(ctx, methodGetBalance, address, "latest")
	if err != nil {
		return "", mapProviderErr(err)
	}
	var hexWei string
	if err := json.Unmarshal(raw, &hexWei); err != nil {
		return "", fmt.Errorf("decode balance: %w", err)
	}
	return weiToDecimal(hexWei)
}

func (b *Bridge) fetchTokenBalance(ctx context.Context, address string) (string, error) {
	raw, err := b.provider.Request(ctx, methodCall, map[string]string{
		"to":   b.tokenAddr,
		"data": balanceOfData(address),
	}, "latest")
	if err != nil {
		return "", mapProviderErr(err)
	}
	var hexAmount string
	if err := json.Unmarshal(raw, &hexAmount); err != nil {
		return "", fmt.Errorf("decode token balance: %w", err)
	}
	return weiToDecimal(hexAmount)
}

func (b *Bridge) recordError(err error) {
	b.mu.Lock()
	b.snap.LastError = err.Error()
	snap := b.snap
	b.mu.Unlock()
	b.publish(snap)
}

func (b *Bridge) setError(msg string) {
	b.mu.Lock()
	b.snap.State = model.WalletError
	b.snap.Connecting = false
	b.snap.LastError = msg
	snap := b.snap
	b.mu.Unlock()
	b.publish(snap)
}

func (b *Bridge) publish(snap model.WalletSnapshot) {
	b.subMu.Lock()
	for _, fn := range b.subs {
		fn(snap)
	}
	b.subMu.Unlock()
}

// mapProviderErr normalizes provider failures into the error taxonomy.
func mapProviderErr(err error) error {
	var rpc *RPCError
	if errors.As(err, &rpc) && rpc.Code == codeUserRejected {
		return fmt.Errorf("%w: %s", errs.ErrWalletRejected, rpc.Message)
	}
	return err
}
