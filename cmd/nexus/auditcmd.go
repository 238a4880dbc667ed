package nexus

import (
	"fmt"
	"strconv"

	"github.com/nexus-forensics/nexus/internal/audit"
	"github.com/nexus-forensics/nexus/internal/report"
	"github.com/spf13/cobra"
)

// history reads the audit file even when writing is switched off.
func (c *cli) history() *audit.AuditLog {
	if c.audit != nil {
		return c.audit
	}
	return audit.NewAuditLog(c.settings.AuditPath)
}

func (c *cli) newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show recent audit records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := c.history().LoadHistory()
			if err != nil {
				return err
			}
			if err := report.PrintHistory(cmd.OutOrStdout(), recs, limit, report.PrintOptions{NoColor: c.settings.NoColor}); err != nil {
				return err
			}
			if len(recs) == 0 {
				return ErrNothingFound
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "show at most N records (0 = all)")

	del := &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete the n-th record as numbered by 'audit list' (1 = newest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return usageErrorf("record number must be a positive integer, got %q", args[0])
			}
			if err := c.history().DeleteRecord(n - 1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted record %d\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}
