package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reelcheck/internal/availability"
	"reelcheck/internal/engine"
)

var tableHeader = table.Row{"Title", "Theater", "Digital", "Status", "Source"}

// RenderTable draws records as a rounded terminal table. Status cells are
// colored when colorize is set.
func RenderTable(records []engine.Record, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(tableHeader)
	for _, rec := range records {
		status := rec.Status.String()
		if colorize {
			status = statusColors(rec.Status).Sprint(status)
		}
		tw.AppendRow(table.Row{
			rec.Title,
			rec.TheaterDate.Or("TBD"),
			rec.DigitalDate.Or("TBD"),
			status,
			string(rec.DigitalSource),
		})
	}
	columnConfigs := make([]table.ColumnConfig, 0, len(tableHeader))
	for i := range tableHeader {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)
	return tw.Render()
}

func statusColors(status availability.Status) text.Colors {
	switch status {
	case availability.Yes:
		return text.Colors{text.FgGreen}
	case availability.Soon:
		return text.Colors{text.FgYellow}
	case availability.No:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgHiBlack}
	}
}
