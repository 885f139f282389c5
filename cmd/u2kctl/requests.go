package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/urgent2kay/dashboard-core/internal/derive"
	"github.com/urgent2kay/dashboard-core/internal/gateway"
	"github.com/urgent2kay/dashboard-core/internal/model"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List bundle requests for your role",
	Long: `Requests shows bill bundles awaiting funding. Sponsors see the
requests addressed to them; beneficiaries see the requests they created.`,
	RunE: runRequests,
}

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors",
	Short: "List your sponsors",
	RunE:  runSponsors,
}

var remindCmd = &cobra.Command{
	Use:   "remind <email>",
	Short: "Email a sponsor about your pending requests",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemind,
}

func init() {
	remindCmd.Flags().String("subject", "You have pending bill requests", "email subject")
	remindCmd.Flags().String("message", "", "email body")

	rootCmd.AddCommand(requestsCmd, sponsorsCmd, remindCmd)
}

func runRequests(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	sess := a.sessions.Current()
	key := "requests"
	loader := func(ctx context.Context) (any, error) {
		return a.gw.ListRequests(ctx)
	}
	if sess.Role == model.RoleSponsor {
		key = "sponsorRequests:" + sess.UserID
		loader = func(ctx context.Context) (any, error) {
			return a.gw.ListSponsorRequests(ctx, sess.UserID)
		}
	}

	v, err := a.cache.FetchAuth(ctx, key, loader)
	if err != nil {
		return err
	}
	reqs := v.([]model.BillRequest)
	if len(reqs) == 0 {
		fmt.Println("no requests")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{
			derive.DisplayID(r.ID),
			r.Beneficiary,
			fmt.Sprintf("%d", len(r.Bills)),
			fmt.Sprintf("%.2f", derive.RequestTotal(r.Bills)),
			statusColor(r.Status),
			derive.FormatRelativeDate(r.CreatedAt, now),
		})
	}
	renderTable([]string{"ID", "Beneficiary", "Bills", "Total", "Status", "Created"}, rows)
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("message")
	if body == "" {
		body = "Hi, a gentle reminder that you have bill requests awaiting your review on Urgent2kay."
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	err := a.gw.SendEmail(ctx, gateway.EmailMessage{To: args[0], Subject: subject, Body: body})
	if err != nil {
		return err
	}
	successf("reminder sent to %s", args[0])
	return nil
}

func runSponsors(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	v, err := a.cache.FetchAuth(ctx, "sponsors", func(ctx context.Context) (any, error) {
		return a.gw.ListSponsors(ctx)
	})
	if err != nil {
		return err
	}
	sponsors := v.([]model.Sponsor)
	if len(sponsors) == 0 {
		fmt.Println("no sponsors")
		return nil
	}

	rows := make([][]string, 0, len(sponsors))
	for _, s := range sponsors {
		rows = append(rows, []string{derive.DisplayID(s.ID), s.Name, s.Email})
	}
	renderTable([]string{"ID", "Name", "Email"}, rows)
	return nil
}
