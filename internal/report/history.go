package report

import (
	"fmt"
	"io"

	"github.com/nexus-forensics/nexus/internal/audit"
	"github.com/olekukonko/tablewriter"
)

// PrintHistory writes audit records as a table, capped at limit rows when
// limit > 0. Records are printed in the order given.
func PrintHistory(w io.Writer, records []audit.Record, limit int, opts PrintOptions) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No audit records")
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	table := tablewriter.NewWriter(w)
	table.Header("Time", "Module", "Action", "Target", "OK", "Notes")
	for _, r := range records {
		ok := paint(opts, strongStyle, "yes")
		if !r.Success {
			ok = paint(opts, weakStyle, "no")
		}
		row := []string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Module,
			r.Action,
			r.Target,
			ok,
			r.Notes,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("history table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("history table: %w", err)
	}
	return nil
}
