package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// renderTable prints a borderless left-aligned table, the dashboard list style.
func renderTable(headers []string, rows [][]string) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	table.Bulk(rows)
	table.Render()
}

// statusColor colors a bill/request status token when colors are enabled.
func statusColor(status string) string {
	if a == nil || !a.cfg.Output.Colors {
		return status
	}
	switch status {
	case "paid", "funded", "completed":
		return color.GreenString(status)
	case "pending", "processing":
		return color.YellowString(status)
	case "rejected", "failed", "overdue":
		return color.RedString(status)
	default:
		return status
	}
}

func successf(format string, args ...any) {
	if a != nil && a.cfg.Output.Colors {
		color.New(color.FgGreen).Printf(format+"\n", args...)
		return
	}
	color.New().Printf(format+"\n", args...)
}

func warnf(format string, args ...any) {
	if a != nil && a.cfg.Output.Colors {
		color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	color.New().Fprintf(os.Stderr, format+"\n", args...)
}
