package nexus

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (c *cli) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.settings); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
