package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"meldify/internal/grouping"
)

// renderTable draws rows under header in the rounded style. Columns listed
// in rightCols (1-based) are right aligned.
func renderTable(header table.Row, rows []table.Row, rightCols ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	tw.AppendRows(rows)

	configs := make([]table.ColumnConfig, 0, len(rightCols))
	for _, n := range rightCols {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

var groupHeader = table.Row{"", "Group", "Confidence", "Source", "Files", "Size", "LUT"}

// groupRows renders one row per group in key order.
func groupRows(g *grouping.Grouping) []table.Row {
	rows := make([]table.Row, 0, g.Len())
	for _, grp := range g.Groups() {
		rows = append(rows, table.Row{
			grp.LutInfo.Icon,
			grp.Name,
			string(grp.ConfidenceLevel),
			string(grp.Source),
			strconv.Itoa(len(grp.Files)),
			humanize.IBytes(uint64(grp.TotalBytes())),
			grp.SelectedLUT,
		})
	}
	return rows
}
