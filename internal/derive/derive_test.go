package derive

import (
	"testing"
	"time"

	"github.com/urgent2kay/dashboard-core/internal/model"
)

func TestMapRoleName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"BENEFACTOR", "sponsor"},
		{"benefactor", "sponsor"},
		{"BENEFACTEE", "beneficiary"},
		{"benefactee", "beneficiary"},
		{"sponsor", "sponsor"},
		{"Sponsor", "sponsor"},
		{"beneficiary", "beneficiary"},
		{"", ""},
		{"admin", "admin"},
	}
	for _, c := range cases {
		if got := MapRoleName(c.in); got != c.want {
			t.Errorf("MapRoleName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKnownRole(t *testing.T) {
	t.Parallel()
	if !KnownRole("BENEFACTOR") || !KnownRole("beneficiary") {
		t.Fatal("canonical and backend tokens must be known")
	}
	if KnownRole("") || KnownRole("admin") {
		t.Fatal("unmapped tokens must not be known")
	}
}

func TestFormatRelativeDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Minute, "Just now"},
		{59 * time.Minute, "Just now"},
		{3 * time.Hour, "3h ago"},
		{23*time.Hour + 30*time.Minute, "23h ago"},
		{30 * time.Hour, "Yesterday"},
		{47 * time.Hour, "Yesterday"},
	}
	for _, c := range cases {
		if got := FormatRelativeDate(now.Add(-c.ago), now); got != c.want {
			t.Errorf("FormatRelativeDate(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}

	// older than two days falls back to month/day
	got := FormatRelativeDate(now.Add(-10*24*time.Hour), now)
	if got != "Jun 5" {
		t.Errorf("FormatRelativeDate(-10d) = %q, want %q", got, "Jun 5")
	}
}

func TestRequestTotal(t *testing.T) {
	t.Parallel()
	bills := []model.Bill{{Amount: 100}, {Amount: 250}, {Amount: 50}}
	if got := RequestTotal(bills); got != 400 {
		t.Fatalf("RequestTotal = %v, want 400", got)
	}
	if got := RequestTotal(nil); got != 0 {
		t.Fatalf("RequestTotal(nil) = %v, want 0", got)
	}
}

func TestDisplayID(t *testing.T) {
	t.Parallel()
	if got := DisplayID("abcd"); got != "abcd" {
		t.Fatalf("short id mangled: %q", got)
	}
	if got := DisplayID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("DisplayID = %q, want 01234567", got)
	}
}
