package nexus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nexus-forensics/nexus/internal/logstore"
	"github.com/nexus-forensics/nexus/internal/report"
	"github.com/spf13/cobra"
)

func (c *cli) store(table string) (*logstore.Store, error) {
	if table == "" {
		table = c.settings.DefaultTable
	}
	return logstore.NewLocal(c.settings.DataDir, table)
}

func (c *cli) newLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Ingest JSON-lines logs and run canned queries",
	}
	var table string
	cmd.PersistentFlags().StringVar(&table, "table", "", "table name (default from config)")

	var inputs []string
	ingest := &cobra.Command{
		Use:   "ingest [file|glob]...",
		Short: "Load JSON-lines files into a new dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := append(append([]string{}, inputs...), args...)
			if len(paths) == 0 {
				return usageErrorf("at least one input file is required (--input or argument)")
			}
			st, err := c.store(table)
			if err != nil {
				return err
			}
			target := strings.Join(paths, ",")
			res, err := st.Ingest(ctx, paths...)
			if err != nil {
				c.record(ctx, "log", "ingest", target, false, err.Error())
				if errors.Is(err, logstore.ErrNoRows) {
					return fmt.Errorf("%w: %w", ErrNothingFound, err)
				}
				return err
			}
			c.record(ctx, "log", "ingest", target, true, fmt.Sprintf("table=%s rows=%d", res.Table, res.Rows))
			return report.WriteJSON(cmd.OutOrStdout(), res, report.PrintOptions{NoColor: c.settings.NoColor})
		},
	}
	ingest.Flags().StringSliceVarP(&inputs, "input", "i", nil, "file or glob to ingest (repeatable)")

	var params string
	cannedCmd := &cobra.Command{
		Use:   "canned <name>",
		Short: "Run a canned query: " + strings.Join(logstore.CannedNames(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			var p map[string]any
			if params != "" {
				if err := json.Unmarshal([]byte(params), &p); err != nil {
					return usageErrorf("--params must be a JSON object: %v", err)
				}
			}
			st, err := c.store(table)
			if err != nil {
				return err
			}
			res, err := st.RunCanned(ctx, name, p)
			if err != nil {
				c.record(ctx, "log", "canned:"+name, st.Table(), false, err.Error())
				if errors.Is(err, logstore.ErrUnknownQuery) || errors.Is(err, logstore.ErrBadParams) {
					return &UsageError{Err: err}
				}
				return err
			}
			c.record(ctx, "log", "canned:"+name, st.Table(), true,
				fmt.Sprintf("results=%d confidence=%s", len(res.Result), res.Confidence))
			if err := report.WriteJSON(cmd.OutOrStdout(), res, report.PrintOptions{NoColor: c.settings.NoColor}); err != nil {
				return err
			}
			if len(res.Result) == 0 {
				return ErrNothingFound
			}
			return nil
		},
	}
	cannedCmd.Flags().StringVar(&params, "params", "", `query parameters as JSON, e.g. '{"field":"status"}'`)

	cmd.AddCommand(ingest, cannedCmd)
	return cmd
}
