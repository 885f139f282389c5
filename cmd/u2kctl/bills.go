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

const keyBills = "bills"

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Manage bills",
}

var billsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your bills",
	RunE:    runBillsList,
}

var billsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new bill",
	RunE:  runBillsAdd,
}

var billsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one bill",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillsShow,
}

var billsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a bill",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillsEdit,
}

var billsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a bill",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillsRm,
}

func init() {
	billsAddCmd.Flags().String("description", "", "what the bill is for")
	billsAddCmd.Flags().String("category", "utilities", "bill category")
	billsAddCmd.Flags().Float64("amount", 0, "amount due")
	billsAddCmd.Flags().String("provider", "", "service provider")
	billsAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")

	billsEditCmd.Flags().String("description", "", "new description")
	billsEditCmd.Flags().String("category", "", "new category")
	billsEditCmd.Flags().Float64("amount", 0, "new amount")
	billsEditCmd.Flags().String("status", "", "new status")

	billsCmd.AddCommand(billsListCmd, billsAddCmd, billsShowCmd, billsEditCmd, billsRmCmd)
	rootCmd.AddCommand(billsCmd)
}

func runBillsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	v, err := a.cache.FetchAuth(ctx, keyBills, func(ctx context.Context) (any, error) {
		return a.gw.ListBills(ctx)
	})
	if err != nil {
		return err
	}
	bills := v.([]model.Bill)
	if len(bills) == 0 {
		fmt.Println("no bills")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, []string{
			derive.DisplayID(b.ID),
			b.Description,
			b.Category,
			fmt.Sprintf("%.2f", b.Amount),
			statusColor(b.Status),
			derive.FormatRelativeDate(b.CreatedAt, now),
		})
	}
	renderTable([]string{"ID", "Description", "Category", "Amount", "Status", "Created"}, rows)
	return nil
}

func runBillsAdd(cmd *cobra.Command, args []string) error {
	desc, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	amount, _ := cmd.Flags().GetFloat64("amount")
	provider, _ := cmd.Flags().GetString("provider")
	due, _ := cmd.Flags().GetString("due")

	in := gateway.NewBill{
		Description: desc,
		Category:    category,
		Amount:      amount,
		Provider:    provider,
	}
	if due != "" {
		d, err := time.Parse("2006-01-02", due)
		if err != nil {
			return fmt.Errorf("bad --due date: %w", err)
		}
		in.DueDate = d
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	var created model.Bill
	err := a.cache.Mutate(ctx, "Add bill", func(ctx context.Context) error {
		var err error
		created, err = a.gw.CreateBill(ctx, in)
		return err
	}, keyBills)
	if err != nil {
		return err
	}
	successf("bill %s created", derive.DisplayID(created.ID))
	return nil
}

func runBillsShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	key := keyBills + ":" + args[0]
	v, err := a.cache.FetchAuth(ctx, key, func(ctx context.Context) (any, error) {
		return a.gw.GetBill(ctx, args[0])
	})
	if err != nil {
		return err
	}
	b := v.(model.Bill)
	rows := [][]string{
		{"ID", b.ID},
		{"Description", b.Description},
		{"Category", b.Category},
		{"Provider", b.Provider},
		{"Amount", fmt.Sprintf("%.2f", b.Amount)},
		{"Status", statusColor(b.Status)},
		{"Created", derive.FormatRelativeDate(b.CreatedAt, time.Now())},
	}
	renderTable([]string{"Field", "Value"}, rows)
	return nil
}

func runBillsEdit(cmd *cobra.Command, args []string) error {
	id := args[0]
	in := gateway.BillUpdate{}
	in.Description, _ = cmd.Flags().GetString("description")
	in.Category, _ = cmd.Flags().GetString("category")
	in.Amount, _ = cmd.Flags().GetFloat64("amount")
	in.Status, _ = cmd.Flags().GetString("status")

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	err := a.cache.Mutate(ctx, "Edit bill", func(ctx context.Context) error {
		_, err := a.gw.UpdateBill(ctx, id, in)
		return err
	}, keyBills, keyBills+":"+id)
	if err != nil {
		return err
	}
	successf("bill %s updated", derive.DisplayID(id))
	return nil
}

func runBillsRm(cmd *cobra.Command, args []string) error {
	id := args[0]

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	err := a.cache.Mutate(ctx, "Delete bill", func(ctx context.Context) error {
		return a.gw.DeleteBill(ctx, id)
	}, keyBills)
	if err != nil {
		return err
	}
	successf("bill %s deleted", id)
	return nil
}
