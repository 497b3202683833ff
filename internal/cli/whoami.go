package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/revlog/internal/config"
)

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the agent identity that authors writes",
		Long: `Show the agent identity that authors writes.

The identity file is generated on first use. Its address is the author of
every action and link this agent writes, and the base of its author index.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(rootOpts, cmd)
		},
	}
}

func runWhoami(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: opts.logLevel}))

	id, err := loadIdentity(opts, formatter, logger)
	if err != nil {
		return err
	}
	did, err := id.DID()
	if err != nil {
		return formatter.Fail("whoami failed", err)
	}
	path, _ := config.ExpandPath(opts.AgentKey)

	return formatter.Success(whoamiView{
		Address: id.Address,
		DID:     did,
		KeyPath: path,
	})
}
