// Package wallet reconciles local UI state with an external cryptocurrency
// wallet provider: connection status, address, network correctness and
// token balances, driven by provider-emitted events.
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the explicit contract for the wallet capability set. Anything
// that cannot satisfy it is treated as wallet-unavailable, never as a
// runtime fault.
type Provider interface {
	// Request performs a JSON-RPC style call against the wallet.
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	// On subscribes handler to a provider event and returns the
	// unsubscribe func.
	On(event string, handler func(payload json.RawMessage)) (func(), error)
}

// Provider events.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// Provider request methods.
const (
	methodRequestAccounts = "eth_requestAccounts"
	methodChainID         = "eth_chainId"
	methodGetBalance      = "eth_getBalance"
	methodCall            = "eth_call"
	methodSwitchChain     = "wallet_switchEthereumChain"
)

// codeUserRejected is the EIP-1193 code for a declined provider prompt.
const codeUserRejected = 4001

// RPCError is a provider-reported failure with its EIP-1193 code.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}
