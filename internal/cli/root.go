package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/revlog/internal/config"
	"github.com/roach88/revlog/internal/versioned"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Database   string
	AgentKey   string
	Verbose    bool
	Format     string // "json" | "text"

	// Resolved from the config file and flags before any subcommand runs.
	logLevel slog.Level

	// Clock and OpIDs default to the system clock and UUIDv7 tokens.
	Clock versioned.Clock
	OpIDs versioned.OpIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the revlog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revlog",
		Short: "revlog - versioned records on an append-only action log",
		Long: `Versioned coins, stakeholders, and stakeholder profiles over a
content-addressed, append-only action log.

Records are never overwritten. Updates and deletes are new actions; the latest
version, full history, and tombstones are resolved from revision links.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/revlog/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.AgentKey, "agent-key", "", "path to agent identity file (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(newEntityCommand(opts, "coin", "coin", "Manage versioned coins"))
	cmd.AddCommand(newEntityCommand(opts, "stakeholder", "stakeholder", "Manage versioned stakeholders"))
	cmd.AddCommand(newEntityCommand(opts, "profile", "stakeholder_profile", "Manage versioned stakeholder profiles"))
	cmd.AddCommand(NewWhoamiCommand(opts))

	return cmd
}

// resolve merges the config file under explicitly set flags.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if !changed("db") {
		o.Database = cfg.Database
	}
	if !changed("agent-key") {
		o.AgentKey = cfg.AgentKey
	}
	if !changed("format") {
		o.Format = cfg.Format
	}

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	o.logLevel = cfg.SlogLevel()
	if o.Verbose {
		o.logLevel = slog.LevelDebug
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
