package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nguyentantai21042004/smelt-client/internal/session"
)

// renderOutcome summarizes a finished job, one row per submitted item.
func renderOutcome(out session.Outcome) string {
	if len(out.Progress) == 0 {
		return ""
	}

	results := make(map[string]string, len(out.Results))
	for _, r := range out.Results {
		results[r.SourceIdentifier] = r.Identifier
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Item", "Progress", "Status", "Result"})

	for _, e := range out.Progress {
		status := e.Status
		if e.Failed() {
			status = e.ErrorMessage
		}
		tw.AppendRow(table.Row{e.Identifier, fmt.Sprintf("%d%%", e.Percent), status, results[e.Identifier]})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
