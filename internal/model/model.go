// Package model defines domain entities shared by the gateway, caches and presentation.
package model

import (
	"time"
)

// Role is a canonical frontend-facing role name.
type Role string

// Canonical roles. The backend speaks BENEFACTOR/BENEFACTEE; see derive.MapRoleName.
const (
	RoleSponsor     Role = "sponsor"
	RoleBeneficiary Role = "beneficiary"
)

// Session is the authenticated-user context gating protected operations.
// Owned exclusively by session.Store; read-only elsewhere.
type Session struct {
	UserID     string
	Role       Role
	Credential string // bearer token attached to gateway calls
	ExpiresAt  time.Time
}

// IsAuthenticated reports whether the session is complete enough to run
// protected queries: both identity and credential present, not expired.
func (s Session) IsAuthenticated() bool {
	if s.UserID == "" || s.Credential == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// Bill is a server-defined payable record, fetched verbatim.
type Bill struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Provider    string    `json:"serviceProvider"`
	DueDate     time.Time `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BillRequest is a beneficiary-initiated bundle of bills awaiting sponsor funding.
type BillRequest struct {
	ID          string    `json:"id"`
	Beneficiary string    `json:"beneficiary"`
	SponsorID   string    `json:"sponsorId"`
	Status      string    `json:"status"`
	Bills       []Bill    `json:"bills"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Sponsor is the funding party for one or more requests.
type Sponsor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationType classifies a user-facing notification.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyInfo    NotificationType = "info"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
)

// Notification is a transient user-facing message. Lifecycle is local-only;
// nothing here is persisted.
type Notification struct {
	ID        string
	Type      NotificationType
	Title     string
	Message   string
	Read      bool
	Timestamp time.Time

	// Optional context for money-movement notifications.
	Amount        float64
	ActionURL     string
	RecipientName string
}

// WalletState enumerates wallet bridge connection states.
type WalletState int

const (
	WalletDisconnected WalletState = iota
	WalletConnecting
	WalletConnectedCorrectNetwork
	WalletConnectedWrongNetwork
	WalletError
)

// String returns a human-readable state name for logs and terminal output.
func (s WalletState) String() string {
	switch s {
	case WalletDisconnected:
		return "disconnected"
	case WalletConnecting:
		return "connecting"
	case WalletConnectedCorrectNetwork:
		return "connected"
	case WalletConnectedWrongNetwork:
		return "wrong-network"
	case WalletError:
		return "error"
	default:
		return "unknown"
	}
}

// Connected reports whether balance fields are meaningful in this state.
func (s WalletState) Connected() bool {
	return s == WalletConnectedCorrectNetwork || s == WalletConnectedWrongNetwork
}

// WalletSnapshot is the single process-wide wallet view. Mutated only by
// wallet.Bridge; consumers receive copies.
type WalletSnapshot struct {
	State            WalletState
	Address          string
	ChainID          string
	IsCorrectNetwork bool
	EthBalance       string // decimal string as reported by the provider
	U2KBalance       string
	Connecting       bool
	LastError        string
}
