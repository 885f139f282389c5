package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// RPCProvider is a watch-only Provider over a plain JSON-RPC endpoint. It
// answers account requests with a single configured address and never emits
// events; prompts that need a real wallet (network switches) are rejected.
// It exists so terminal environments without an injected wallet extension
// can still display balances for a known address.
type RPCProvider struct {
	endpoint string
	address  string
	http     *http.Client
	nextID   atomic.Int64
}

// NewRPCProvider constructs a watch-only provider for address backed by the
// JSON-RPC endpoint.
func NewRPCProvider(endpoint, address string, timeout time.Duration) *RPCProvider {
	return &RPCProvider{
		endpoint: endpoint,
		address:  address,
		http:     &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Request implements Provider.
func (p *RPCProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	switch method {
	case methodRequestAccounts:
		return json.Marshal([]string{p.address})
	case methodSwitchChain:
		return nil, &RPCError{Code: codeUserRejected, Message: "watch-only provider cannot switch networks"}
	}
	return p.call(ctx, method, params)
}

// On implements Provider. A plain RPC endpoint emits no wallet events, so
// the subscription is a no-op with a valid unsubscribe.
func (p *RPCProvider) On(string, func(payload json.RawMessage)) (func(), error) {
	return func() {}, nil
}

func (p *RPCProvider) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      p.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("rpc decode %s: %w", method, err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}
