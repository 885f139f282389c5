package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRPCProviderAccounts(t *testing.T) {
	t.Parallel()
	p := NewRPCProvider("http://unused", "0xAAA1", time.Second)

	raw, err := p.Request(context.Background(), methodRequestAccounts)
	if err != nil {
		t.Fatal(err)
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0] != "0xAAA1" {
		t.Fatalf("accounts = %v", accounts)
	}
}

func TestRPCProviderSwitchRejected(t *testing.T) {
	t.Parallel()
	p := NewRPCProvider("http://unused", "0xAAA1", time.Second)

	_, err := p.Request(context.Background(), methodSwitchChain)
	var rpc *RPCError
	if !errors.As(err, &rpc) || rpc.Code != codeUserRejected {
		t.Fatalf("want user-rejected RPCError, got %v", err)
	}
}

func TestRPCProviderCall(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		if req.Method != methodChainID {
			t.Errorf("method = %q", req.Method)
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x14a34"}`))
	}))
	defer srv.Close()

	p := NewRPCProvider(srv.URL, "0xAAA1", time.Second)
	raw, err := p.Request(context.Background(), methodChainID)
	if err != nil {
		t.Fatal(err)
	}
	var chain string
	_ = json.Unmarshal(raw, &chain)
	if chain != "0x14a34" {
		t.Fatalf("chain = %q", chain)
	}
}

func TestRPCProviderServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
	}))
	defer srv.Close()

	p := NewRPCProvider(srv.URL, "0xAAA1", time.Second)
	_, err := p.Request(context.Background(), methodGetBalance, "0xAAA1", "latest")
	var rpc *RPCError
	if !errors.As(err, &rpc) || rpc.Code != -32601 {
		t.Fatalf("want RPCError -32601, got %v", err)
	}
}
