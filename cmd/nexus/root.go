package nexus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexus-forensics/nexus/internal/audit"
	"github.com/nexus-forensics/nexus/internal/config"
	nlog "github.com/nexus-forensics/nexus/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "0.1.0"

// cli carries persistent flags and the state resolved from them before any
// subcommand runs.
type cli struct {
	configPath string
	noColor    bool
	logEnv     string
	verbose    bool
	noAudit    bool

	// started is set once flags and args have been validated.
	started  bool
	settings config.Settings
	audit    *audit.AuditLog
	closeLog func()
}

func (c *cli) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nexus",
		Short: "Forensic triage for opaque data",
		Long: `nexus identifies what an opaque string probably is (an encoding, armor,
a classical cipher, a container or modern ciphertext), extracts file
metadata and runs canned queries over ingested JSON logs.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: .nexus.yml or the global config)")
	pf.BoolVar(&c.noColor, "no-color", false, "disable colorized output")
	pf.StringVar(&c.logEnv, "log-env", "", "logger flavour: dev | prod")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&c.noAudit, "no-audit", false, "do not write to the audit log")

	cmd.AddCommand(
		c.newCryptCommand(),
		c.newOsintCommand(),
		c.newLogCommand(),
		c.newAuditCommand(),
		c.newConfigCommand(),
		c.newVersionCommand(),
		c.newUpdateCommand(),
	)
	return cmd
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.started = true
	wd, _ := os.Getwd()
	s, err := config.Resolve(c.configPath, wd)
	if err != nil {
		return err
	}
	if c.noColor {
		s.NoColor = true
	}
	if c.logEnv != "" {
		s.LogEnv = c.logEnv
	}
	if !s.NoColor && !isTerminal(cmd.OutOrStdout()) {
		s.NoColor = true
	}
	c.settings = s

	closeLog, err := nlog.Initialize(s.LogEnv, c.verbose)
	if err != nil {
		return err
	}
	c.closeLog = closeLog

	if s.Audit && !c.noAudit {
		c.audit = audit.NewAuditLog(s.AuditPath)
	}
	slog.DebugContext(cmd.Context(), "settings resolved",
		"data_dir", s.DataDir, "audit", c.audit.Path(), "format", s.Format)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// record appends to the audit log. Failures are logged and otherwise
// ignored so they never change a command's outcome.
func (c *cli) record(ctx context.Context, module, action, target string, success bool, notes string) {
	if err := c.audit.Log(module, action, target, success, notes); err != nil {
		slog.WarnContext(ctx, "audit write failed", "error", err, "module", module, "action", action)
	}
}

func (c *cli) close() {
	if c.closeLog != nil {
		c.closeLog()
	}
}

// exitCode maps the error returned by the command tree to a process exit
// code, reporting it on errOut.
func (c *cli) exitCode(err error, errOut io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNothingFound):
		if err != ErrNothingFound {
			fmt.Fprintln(errOut, err)
		}
		return ExitNothingFound
	}
	var ue *UsageError
	if errors.As(err, &ue) || !c.started {
		fmt.Fprintln(errOut, "error:", err)
		fmt.Fprintln(errOut, "Run 'nexus --help' for usage.")
		return ExitUsage
	}
	fmt.Fprintln(errOut, "error:", err)
	return ExitError
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c := &cli{}
	root := c.newRootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	c.close()
	return c.exitCode(err, errOut)
}

// Execute runs the nexus CLI and exits the process. It should be called by
// the main package.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
