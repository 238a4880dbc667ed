package nexus

import (
	"fmt"

	"github.com/nexus-forensics/nexus/internal/detectors"
	"github.com/nexus-forensics/nexus/internal/update"
	"github.com/spf13/cobra"
)

func (c *cli) newVersionCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nexus %s (calibration %s)\n", version, detectors.CalibrationVersion)
			if !check {
				return
			}
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "(new version available: v%s)  run 'nexus update' to upgrade\n", latest)
			}
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "also check for a newer release")
	return cmd
}

func (c *cli) newUpdateCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update nexus to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				latest, newer, err := update.Check(version, false)
				if err != nil {
					return err
				}
				if !newer {
					fmt.Fprintf(cmd.OutOrStdout(), "nexus %s is up to date\n", version)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "v%s is available (running %s)\n", latest, version)
				return nil
			}
			installed, err := update.Apply(version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s; re-run your command\n", installed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "check", false, "only report whether an update is available")
	return cmd
}
