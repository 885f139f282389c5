// Package derive contains pure projections consumed by presentation.
// Everything here is deterministic and performs no I/O; callers are
// responsible for logging unexpected inputs.
package derive

import (
	"strconv"
	"strings"
	"time"

	"github.com/urgent2kay/dashboard-core/internal/model"
)

// backend role tokens, matched case-insensitively.
const (
	backendSponsor     = "benefactor"
	backendBeneficiary = "benefactee"
)

// MapRoleName normalizes a backend role token to its frontend-facing form.
// Canonical input maps to itself; anything unrecognized is passed through
// unchanged so the caller can log it.
func MapRoleName(role string) string {
	switch strings.ToLower(role) {
	case backendSponsor, string(model.RoleSponsor):
		return string(model.RoleSponsor)
	case backendBeneficiary, string(model.RoleBeneficiary):
		return string(model.RoleBeneficiary)
	default:
		return role
	}
}

// KnownRole reports whether MapRoleName recognized the input. Used by
// callers to decide whether to log the token as unexpected.
func KnownRole(role string) bool {
	switch strings.ToLower(role) {
	case backendSponsor, backendBeneficiary, string(model.RoleSponsor), string(model.RoleBeneficiary):
		return true
	}
	return false
}

// FormatRelativeDate buckets a timestamp relative to now:
// under an hour is "Just now", under a day is "Nh ago", the day before
// is "Yesterday", anything older is a month/day string.
func FormatRelativeDate(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "Just now"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2")
	}
}

// RequestTotal sums the nested bill amounts of a request.
func RequestTotal(bills []model.Bill) float64 {
	var total float64
	for i := range bills {
		total += bills[i].Amount
	}
	return total
}

// DisplayID shortens a server id for table output (first 8 chars).
func DisplayID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
