package nexus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/nexus-forensics/nexus/internal/audit"
	"github.com/nexus-forensics/nexus/internal/detectors"
	"github.com/nexus-forensics/nexus/internal/engine"
	"github.com/nexus-forensics/nexus/internal/report"
	"github.com/nexus-forensics/nexus/internal/tui"
	"github.com/nexus-forensics/nexus/internal/types"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const stdinTarget = "[stdin]"

// maxLine bounds one payload line in batch mode.
const maxLine = 16 << 20

func (c *cli) newCryptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crypt",
		Short: "Identify encodings, armor, ciphers and containers",
	}
	cmd.AddCommand(
		c.newDetectCommand(),
		c.newBatchCommand(),
		c.newExploreCommand(),
		c.newTestDetectorCommand(),
		&cobra.Command{
			Use:   "detectors",
			Short: "List detector identifiers",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				for _, id := range engine.DetectorIDs() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
			},
		},
		&cobra.Command{
			Use:   "alphabets",
			Short: "List the named alphabets used for charset matching",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printAlphabets(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

// payload returns the text to analyse: --input when given (where "-"
// reads stdin), else the single positional argument.
func payload(cmd *cobra.Command, input string, args []string) (string, error) {
	switch {
	case cmd.Flags().Changed("input"):
		if len(args) > 0 {
			return "", usageErrorf("give the payload with --input or as an argument, not both")
		}
		if input == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			return strings.TrimRight(string(b), "\r\n"), nil
		}
		return input, nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", usageErrorf("a payload is required (--input or argument)")
}

func (c *cli) engineOptions(parallel bool) engine.Options {
	return engine.Options{Parallel: parallel || c.settings.Parallel}
}

func (c *cli) newDetectCommand() *cobra.Command {
	var (
		input    string
		format   string
		top      int
		copyOut  bool
		parallel bool
	)
	cmd := &cobra.Command{
		Use:   "detect [payload]",
		Short: "Rank what a payload probably is",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := payload(cmd, input, args)
			if err != nil {
				return err
			}
			if format == "" {
				format = c.settings.Format
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return &UsageError{Err: err}
			}
			if !cmd.Flags().Changed("top") {
				top = c.settings.Top
			}

			res := engine.DetectWith(text, c.engineOptions(parallel))
			c.record(cmd.Context(), "crypt", "detect", audit.InlineTarget, true,
				fmt.Sprintf("candidates=%d", len(res.Candidates)))

			opts := report.PrintOptions{NoColor: c.settings.NoColor, Top: top}
			if err := report.Render(cmd.OutOrStdout(), res, f, opts); err != nil {
				return err
			}
			if copyOut {
				if err := clipboard.WriteAll(report.Simple(res.Top(top))); err != nil {
					slog.WarnContext(cmd.Context(), "clipboard copy failed", "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "clipboard:", err)
				}
			}
			if len(res.Candidates) == 0 {
				return ErrNothingFound
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", `payload to analyse ("-" reads stdin)`)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(report.Formats(), " | "))
	cmd.Flags().IntVar(&top, "top", 0, "show at most N candidates (0 = all)")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the verdict to the clipboard")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run detectors concurrently")
	return cmd
}

// batchLine is one output line of crypt batch.
type batchLine struct {
	Line int `json:"line"`
	types.DetectionResult
}

func (c *cli) newBatchCommand() *cobra.Command {
	var (
		file     string
		workers  int
		parallel bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Detect every line of a file, writing JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			target := file
			var r io.Reader
			if file == "-" {
				r, target = cmd.InOrStdin(), stdinTarget
			} else {
				f, err := os.Open(file)
				if err != nil {
					c.record(ctx, "crypt", "batch", target, false, err.Error())
					return fmt.Errorf("open batch input: %w", err)
				}
				defer f.Close()
				r = f
			}
			inputs, err := readLines(r)
			if err != nil {
				c.record(ctx, "crypt", "batch", target, false, err.Error())
				return err
			}

			if !cmd.Flags().Changed("workers") {
				workers = c.settings.Workers
			}
			if workers <= 0 {
				workers = runtime.GOMAXPROCS(0)
			}
			slog.DebugContext(ctx, "batch detect", "inputs", len(inputs), "workers", workers)

			results, err := engine.DetectAll(ctx, inputs, workers, c.engineOptions(parallel))
			if err != nil {
				c.record(ctx, "crypt", "batch", target, false, err.Error())
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i, res := range results {
				if err := enc.Encode(batchLine{Line: i + 1, DetectionResult: res}); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
			}
			c.record(ctx, "crypt", "batch", target, true, fmt.Sprintf("inputs=%d", len(inputs)))
			if len(inputs) == 0 {
				return ErrNothingFound
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `file with one payload per line ("-" reads stdin)`)
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent payloads (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "also run detectors concurrently within a payload")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return lines, nil
}

func (c *cli) newExploreCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "explore [payload]",
		Short: "Browse detection candidates interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := payload(cmd, input, args)
			if err != nil {
				return err
			}
			res := engine.DetectWith(text, c.engineOptions(false))
			c.record(cmd.Context(), "crypt", "explore", audit.InlineTarget, true,
				fmt.Sprintf("candidates=%d", len(res.Candidates)))
			return tui.Run(text, res)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", `payload to analyse ("-" reads stdin)`)
	return cmd
}

func (c *cli) newTestDetectorCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "test-detector <id>",
		Short: "Run one detector against text read from stdin",
		Long:  "Available detectors: " + strings.Join(detectors.FunctionIDs(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if format == "" {
				format = c.settings.Format
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return &UsageError{Err: err}
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			res, ok := engine.DetectOnly(id, strings.TrimRight(string(data), "\r\n"))
			if !ok {
				return usageErrorf("unknown detector id %q (available: %s)", id, strings.Join(detectors.FunctionIDs(), ", "))
			}
			opts := report.PrintOptions{NoColor: c.settings.NoColor}
			if err := report.Render(cmd.OutOrStdout(), res, f, opts); err != nil {
				return err
			}
			if len(res.Candidates) == 0 {
				return ErrNothingFound
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(report.Formats(), " | "))
	return cmd
}

func printAlphabets(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Size", "Characters")
	for _, name := range detectors.AlphabetNames() {
		a, _ := detectors.LookupAlphabet(name)
		chars := strings.NewReplacer("\n", `\n`, " ", "␠").Replace(a.Chars())
		if err := table.Append([]string{name, fmt.Sprint(len([]rune(a.Chars()))), chars}); err != nil {
			return fmt.Errorf("alphabet table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("alphabet table: %w", err)
	}
	return nil
}
