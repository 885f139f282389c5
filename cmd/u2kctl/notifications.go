package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/urgent2kay/dashboard-core/internal/derive"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notes"},
	Short:   "Show notifications from this session",
	RunE:    runNotifications,
}

func init() {
	notificationsCmd.Flags().Bool("clear", false, "clear all notifications")
	rootCmd.AddCommand(notificationsCmd)
}

func runNotifications(cmd *cobra.Command, args []string) error {
	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		a.notes.Clear()
		successf("notifications cleared")
		return nil
	}

	items := a.notes.List()
	if len(items) == 0 {
		fmt.Println("no notifications")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		read := ""
		if !n.Read {
			read = "*"
		}
		rows = append(rows, []string{
			read,
			string(n.Type),
			n.Title,
			n.Message,
			derive.FormatRelativeDate(n.Timestamp, now),
		})
	}
	renderTable([]string{"", "Type", "Title", "Message", "When"}, rows)
	a.notes.MarkAllRead()
	return nil
}
