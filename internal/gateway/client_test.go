package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/urgent2kay/dashboard-core/internal/errs"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, tok string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	var ts TokenSource
	if tok != "" {
		ts = staticTokens(tok)
	}
	return NewClient(srv.URL, 5*time.Second, ts, nil)
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}, "tok123")

	_, err := c.ListBills(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok123", gotAuth)
}

func TestNoBearerWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}, "")

	_, err := c.ListBills(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestEnvelopeDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"b1","amount":150.5}]}`))
	}, "")

	bills, err := c.ListBills(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.Equal(t, "b1", bills[0].ID)
	require.Equal(t, 150.5, bills[0].Amount)
}

func TestServerMessageSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"database exploded"}`))
	}, "")

	_, err := c.ListBills(context.Background())
	require.ErrorIs(t, err, errs.ErrNetwork)
	require.Contains(t, err.Error(), "database exploded")
}

func TestGenericFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "")

	_, err := c.ListBills(context.Background())
	require.ErrorIs(t, err, errs.ErrNetwork)
	require.Contains(t, err.Error(), "502")
}

func TestStatusTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, errs.ErrAuthRequired},
		{http.StatusForbidden, errs.ErrAuthRequired},
		{http.StatusNotFound, errs.ErrNotFound},
		{http.StatusBadRequest, errs.ErrValidation},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
		}, "")
		_, err := c.ListBills(context.Background())
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestFalseEnvelopeOn200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"soft failure"}`))
	}, "")

	_, err := c.ListBills(context.Background())
	require.ErrorIs(t, err, errs.ErrNetwork)
	require.Contains(t, err.Error(), "soft failure")
}

func TestValidationShortCircuits(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	_, err := c.CreateBill(context.Background(), NewBill{Description: "", Amount: -5})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.False(t, called, "invalid payload must not reach the network")

	err = c.SendEmail(context.Background(), EmailMessage{To: "not-an-email", Subject: "s", Body: "b"})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.False(t, called)
}

func TestNetworkErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil, nil)
	_, err := c.ListBills(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrNetwork))
}

func TestDeleteBill(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{"success":true}`))
	}, "tok")

	require.NoError(t, c.DeleteBill(context.Background(), "b42"))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/api/bills/b42", gotPath)
}

func TestListSponsorRequestsPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}, "tok")

	_, err := c.ListSponsorRequests(context.Background(), "u7")
	require.NoError(t, err)
	require.Equal(t, "/api/requests/sponsor/u7", gotPath)
}
