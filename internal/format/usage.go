package format

import (
	"fmt"
	"strconv"

	"foundrydemo/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const notAvailable = "N/A"

type usageRow struct {
	label string
	value string
}

func usageRows(usage *model.Usage) []usageRow {
	if usage == nil {
		usage = &model.Usage{}
	}
	rows := []usageRow{
		{"Input tokens", countOrNA(usage.InputTokens)},
		{"Output tokens", countOrNA(usage.OutputTokens)},
	}
	if usage.ReasoningTokens != nil {
		rows = append(rows, usageRow{"Reasoning tokens", strconv.Itoa(*usage.ReasoningTokens)})
	}
	rows = append(rows, usageRow{"Total tokens", countOrNA(usage.TotalTokens)})
	return rows
}

// RenderUsage returns the token usage section, including its heading.
func RenderUsage(usage *model.Usage, opts Options) string {
	title := opts.UsageTitle
	if title == "" {
		title = "Token Usage"
	}
	out := "\n" + heading(fmt.Sprintf("--- %s ---", title), opts.Color) + "\n"

	rows := usageRows(usage)
	if opts.UsageStyle == UsageStyleTable {
		return out + renderUsageTable(rows) + "\n"
	}
	for _, row := range rows {
		out += fmt.Sprintf("  %-17s %s\n", row.label+":", row.value)
	}
	return out
}

func renderUsageTable(rows []usageRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	tw.Style().Format.Header = text.FormatDefault

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Tokens", "Count"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.label, row.value})
	}
	return tw.Render()
}

func countOrNA(n *int) string {
	if n == nil {
		return notAvailable
	}
	return strconv.Itoa(*n)
}
