package nexus

import (
	"fmt"

	"github.com/nexus-forensics/nexus/internal/osint"
	"github.com/nexus-forensics/nexus/internal/report"
	"github.com/spf13/cobra"
)

func (c *cli) newOsintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osint",
		Short: "File metadata for investigations",
	}

	var input string
	meta := &cobra.Command{
		Use:   "meta",
		Short: "Hashes, MIME type, EXIF and GPS of a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				return usageErrorf("--input is required")
			}
			m, err := osint.ExtractMeta(input)
			if err != nil {
				c.record(cmd.Context(), "osint", "meta", input, false, err.Error())
				return err
			}
			c.record(cmd.Context(), "osint", "meta", input, true,
				fmt.Sprintf("mime=%s gps=%t", m.MIME, m.GPS != nil))
			return report.WriteJSON(cmd.OutOrStdout(), m, report.PrintOptions{NoColor: c.settings.NoColor})
		},
	}
	meta.Flags().StringVarP(&input, "input", "i", "", "file to inspect")
	cmd.AddCommand(meta)
	return cmd
}
